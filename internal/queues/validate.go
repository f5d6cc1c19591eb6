package queues

// Messages reported for invalid compute resources.
const (
	MsgInstanceTypeRequired = "Select at least one instance type."
	MsgInstanceTypeUnique   = "Instance types must be unique within a queue."
	MsgCountRange           = "The number of dynamic nodes cannot be negative and static nodes cannot exceed the maximum."
)

// ValidateComputeResources checks the compute resources of one queue and
// returns the first problem of every failing entry, keyed by its index. When
// two entries share an instance type the later one carries the error.
func ValidateComputeResources(v Variant, crs []ComputeResource) (bool, map[int]string) {
	problems := map[int]string{}
	seen := map[string]struct{}{}

	for i, cr := range crs {
		types := v.InstanceTypes(cr)
		switch {
		case len(types) == 0:
			problems[i] = MsgInstanceTypeRequired
		case hasAny(seen, types) || hasDuplicates(types):
			problems[i] = MsgInstanceTypeUnique
		case cr.MinCount < 0 || cr.MaxCount < cr.MinCount:
			problems[i] = MsgCountRange
		}
		for _, t := range types {
			seen[t] = struct{}{}
		}
	}
	return len(problems) == 0, problems
}

func hasAny(set map[string]struct{}, values []string) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func hasDuplicates(values []string) bool {
	local := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := local[v]; ok {
			return true
		}
		local[v] = struct{}{}
	}
	return false
}

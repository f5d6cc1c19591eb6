package queues

import "strings"

// Variant is the compute-resource shape selected for a wizard session.
type Variant interface {
	// Name identifies the variant in logs.
	Name() string
	// Create returns the default compute resource for a new list entry.
	Create(queueName string, index int) ComputeResource
	// InstanceTypes lists the instance types a compute resource uses.
	InstanceTypes(cr ComputeResource) []string
	// InstanceTypesField returns the key and tree value that store the given
	// instance types on a compute resource.
	InstanceTypesField(types []string) (key string, value any)
	// QueueDefaults returns queue-level settings the variant requires.
	QueueDefaults() map[string]any
}

// ComputeResourceName derives a compute resource's name from its queue and
// instance type, e.g. ("queue-1", "c5n.large") -> "queue-1-c5nlarge".
func ComputeResourceName(queueName, instanceType string) string {
	return queueName + "-" + strings.ReplaceAll(instanceType, ".", "")
}

// DeriveName computes the name a compute resource must carry under queueName.
func DeriveName(v Variant, queueName string, cr ComputeResource) string {
	types := v.InstanceTypes(cr)
	if len(types) == 0 {
		return queueName + "-cr"
	}
	return ComputeResourceName(queueName, types[0])
}

// For returns the variant matching the multiple-instance-types feature flag.
func For(multipleInstanceTypes bool) Variant {
	if multipleInstanceTypes {
		return Multi{}
	}
	return Single{}
}

// Single is the one-instance-type-per-compute-resource shape.
type Single struct{}

func (Single) Name() string { return "single-instance-type" }

func (Single) Create(queueName string, _ int) ComputeResource {
	return ComputeResource{
		Name:         ComputeResourceName(queueName, DefaultInstanceType),
		InstanceType: DefaultInstanceType,
		MinCount:     DefaultMinCount,
		MaxCount:     DefaultMaxCount,
	}
}

func (Single) InstanceTypes(cr ComputeResource) []string {
	if cr.InstanceType == "" {
		return nil
	}
	return []string{cr.InstanceType}
}

func (Single) InstanceTypesField(types []string) (string, any) {
	if len(types) == 0 {
		return "InstanceType", ""
	}
	return "InstanceType", types[0]
}

func (Single) QueueDefaults() map[string]any {
	return map[string]any{}
}

// Multi is the several-instance-types-per-compute-resource shape.
type Multi struct{}

// DefaultAllocationStrategy is the allocation strategy of multi-instance-type queues.
const DefaultAllocationStrategy = "lowest-price"

func (Multi) Name() string { return "multiple-instance-types" }

func (Multi) Create(queueName string, _ int) ComputeResource {
	return ComputeResource{
		Name:      ComputeResourceName(queueName, DefaultInstanceType),
		Instances: []Instance{{InstanceType: DefaultInstanceType}},
		MinCount:  DefaultMinCount,
		MaxCount:  DefaultMaxCount,
	}
}

func (Multi) InstanceTypes(cr ComputeResource) []string {
	var out []string
	for _, in := range cr.Instances {
		if in.InstanceType != "" {
			out = append(out, in.InstanceType)
		}
	}
	return out
}

func (Multi) InstanceTypesField(types []string) (string, any) {
	instances := make([]any, 0, len(types))
	for _, t := range types {
		instances = append(instances, map[string]any{"InstanceType": t})
	}
	return "Instances", instances
}

func (Multi) QueueDefaults() map[string]any {
	return map[string]any{"AllocationStrategy": DefaultAllocationStrategy}
}

// RenameAll regenerates every entry's Name for newQueueName, leaving the
// input untouched.
func RenameAll(v Variant, entries []ComputeResource, newQueueName string) []ComputeResource {
	out := make([]ComputeResource, len(entries))
	for i, cr := range entries {
		cr.Name = DeriveName(v, newQueueName, cr)
		out[i] = cr
	}
	return out
}

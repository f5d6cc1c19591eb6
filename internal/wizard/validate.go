package wizard

import (
	"regexp"
	"slices"
	"strings"

	"github.com/specialistvlad/pcwizard/internal/binding"
	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/specialistvlad/pcwizard/internal/queues"
)

const (
	maxClusterNameLength = 60
	maxQueueNameLength   = 25
)

var (
	clusterNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]+$`)
	queueNamePattern   = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	secretArnPattern   = regexp.MustCompile(`^arn:aws[a-z-]*:secretsmanager:[a-z0-9-]+:\d{12}:secret:.+$`)
)

// reporter collects the outcome of one validator run. Every check writes its
// message or clears its path, so a run never leaves a stale message behind.
type reporter struct {
	s     *Session
	valid bool
}

func (s *Session) newReporter(step string) *reporter {
	must(s.store.Set(ValidatedPath.Child(step), true))
	return &reporter{s: s, valid: true}
}

// check writes msg at p when failed, and clears p otherwise.
func (r *reporter) check(p docpath.Path, failed bool, msg string) {
	if failed {
		r.fail(p, msg)
		return
	}
	must(r.s.store.Clear(p))
}

func (r *reporter) fail(p docpath.Path, msg string) {
	must(r.s.store.Set(p, msg))
	r.valid = false
}

// first reports the first failing rule, or clears p when none fails.
func (r *reporter) first(p docpath.Path, rules ...rule) {
	for _, rl := range rules {
		if rl.failed {
			r.fail(p, rl.msg)
			return
		}
	}
	must(r.s.store.Clear(p))
}

type rule struct {
	failed bool
	msg    string
}

// ValidateCluster checks the cluster properties step: region, VPC, custom
// AMI, multi-user directory settings, the cluster name when creating, and
// Slurm accounting.
func (s *Session) ValidateCluster() bool {
	r := s.newReporter(StepCluster)
	editing := s.Editing().Read()

	r.check(VpcErrorPath, !editing && s.Vpc().Read() == "", MsgVpcRequired)
	r.check(RegionErrorPath, !editing && s.Region().Read() == "", MsgRegionRequired)
	r.check(CustomAmiErrorPath, s.CustomAMIEnabled().Read() && s.CustomAMI().Read() == "", MsgCustomAmiRequired)

	must(s.store.Clear(MultiUserErrorPath))
	if s.MultiUser().Read() {
		s.validateDirectoryService(r)
	}

	if editing {
		must(s.store.Clear(ClusterNameErrorPath))
	} else {
		s.validateClusterName(r)
	}

	s.validateAccounting(r)

	ctxlog.FromContext(s.ctx).Debug("Cluster step validated.", "valid", r.valid)
	return r.valid
}

func (s *Session) validateClusterName(r *reporter) {
	name := s.ClusterName().Read()
	existing := binding.Strings(s.store, ClusterNamesPath).Read()
	r.first(ClusterNameErrorPath,
		rule{name == "", MsgClusterNameRequired},
		rule{len(name) > maxClusterNameLength, MsgClusterNameTooLong},
		rule{!clusterNamePattern.MatchString(name), MsgClusterNameFormat},
		rule{slices.Contains(existing, name), MsgClusterNameExists},
	)
}

func (s *Session) validateDirectoryService(r *reporter) {
	fields := []struct {
		key, errKey, msg string
	}{
		{"DomainName", "domainName", MsgDomainNameRequired},
		{"DomainAddr", "domainAddr", MsgDomainAddrRequired},
		{"PasswordSecretArn", "passwordSecretArn", MsgDirectorySecretRequired},
		{"DomainReadOnlyUser", "domainReadOnlyUser", MsgDomainReadOnlyUserRequired},
	}
	for _, f := range fields {
		value := binding.String(s.store, DirectoryServicePath.Child(f.key)).Read()
		r.check(MultiUserErrorPath.Child(f.errKey), value == "", f.msg)
	}
}

// validateAccounting requires the whole Slurm database block as soon as any
// of its fields is set.
func (s *Session) validateAccounting(r *reporter) {
	uri := binding.String(s.store, DatabasePath.Child("Uri")).Read()
	user := binding.String(s.store, DatabasePath.Child("UserName")).Read()
	secret := binding.String(s.store, DatabasePath.Child("PasswordSecretArn")).Read()

	must(s.store.Clear(AccountingErrorPath))
	if uri == "" && user == "" && secret == "" {
		return
	}
	r.check(AccountingErrorPath.Child("uri"), uri == "", MsgDatabaseUriRequired)
	r.check(AccountingErrorPath.Child("userName"), user == "", MsgDatabaseUserRequired)
	r.first(AccountingErrorPath.Child("passwordSecretArn"),
		rule{secret == "", MsgDatabaseSecretRequired},
		rule{!secretArnPattern.MatchString(secret), MsgDatabaseSecretInvalidArn},
	)
}

// ValidateHeadNode checks the head node step.
func (s *Session) ValidateHeadNode() bool {
	r := s.newReporter(StepHeadNode)
	r.check(HeadNodeTypeErrorPath, s.HeadNodeInstanceType().Read() == "", MsgHeadNodeTypeRequired)
	r.check(HeadNodeSubnetErrorPath, s.HeadNodeSubnet().Read() == "", MsgHeadNodeSubnetRequired)

	ctxlog.FromContext(s.ctx).Debug("Head node step validated.", "valid", r.valid)
	return r.valid
}

// ValidateQueues checks every queue: its name, its subnet and its compute
// resources. A repeated queue name is reported on the later queue.
func (s *Session) ValidateQueues() bool {
	r := s.newReporter(StepQueues)
	must(s.store.Clear(queueErrors))

	count := s.QueueCount()
	r.check(QueueListErrorPath, count == 0, MsgQueueListEmpty)

	seen := map[string]struct{}{}
	for i := 0; i < count; i++ {
		s.validateQueue(r, i, seen)
	}

	ctxlog.FromContext(s.ctx).Debug("Queues step validated.", "valid", r.valid, "queues", count)
	return r.valid
}

func (s *Session) validateQueue(r *reporter, i int, seen map[string]struct{}) {
	errs := QueueErrorPath(i)

	name := binding.String(s.store, QueuePath(i).Child("Name")).Read()
	_, duplicate := seen[name]
	seen[name] = struct{}{}
	r.first(errs.Child("name"),
		rule{name == "", MsgQueueNameRequired},
		rule{len(name) > maxQueueNameLength, MsgQueueNameTooLong},
		rule{!queueNamePattern.MatchString(name), MsgQueueNameFormat},
		rule{duplicate, MsgQueueNameDuplicate},
	)

	subnets := binding.Strings(s.store, QueuePath(i).Append("Networking", "SubnetIds")).Read()
	r.check(errs.Child("subnet"), len(subnets) == 0, MsgQueueSubnetRequired)

	crs, err := s.Queue(i).Entries()
	if err != nil {
		// An undecodable list cannot hold a valid compute resource.
		ctxlog.FromContext(s.ctx).Warn("Unreadable compute resources.", "queue", i, "error", err)
		crs = nil
	}
	r.check(errs.Child("computeResourceCount"), len(crs) == 0, MsgComputeResourcesRequired)

	ok, problems := queues.ValidateComputeResources(s.variant, crs)
	if ok {
		return
	}
	for j, msg := range problems {
		r.fail(errs.Append("computeResources", j), msg)
	}
}

// ValidateAll runs every step validator, including those after a failing
// one, so all messages are current.
func (s *Session) ValidateAll() bool {
	cluster := s.ValidateCluster()
	headNode := s.ValidateHeadNode()
	queueList := s.ValidateQueues()
	return cluster && headNode && queueList
}

// Validated reports whether step has been validated at least once.
func (s *Session) Validated(step string) bool {
	return binding.Bool(s.store, ValidatedPath.Child(step)).Read()
}

// Errors returns a copy of the errors subtree.
func (s *Session) Errors() map[string]any {
	m, _ := s.get(ErrorsPath).(map[string]any)
	return m
}

// ErrorAt returns the message at p, or "" when there is none.
func (s *Session) ErrorAt(p docpath.Path) string {
	msg, _ := s.get(p).(string)
	return msg
}

// HasErrors reports whether the errors subtree holds any message.
func (s *Session) HasErrors() bool {
	return hasMessage(s.get(ErrorsPath))
}

func hasMessage(node any) bool {
	switch n := node.(type) {
	case string:
		return n != ""
	case map[string]any:
		for _, v := range n {
			if hasMessage(v) {
				return true
			}
		}
	case []any:
		for _, v := range n {
			if hasMessage(v) {
				return true
			}
		}
	}
	return false
}

// Message is one validation message and where it was reported.
type Message struct {
	Path docpath.Path
	Text string
}

// Messages lists every message in the errors subtree, ordered by path.
func (s *Session) Messages() []Message {
	var out []Message
	collectMessages(ErrorsPath, s.get(ErrorsPath), &out)
	slices.SortFunc(out, func(a, b Message) int {
		return strings.Compare(a.Path.String(), b.Path.String())
	})
	return out
}

func collectMessages(p docpath.Path, node any, out *[]Message) {
	switch n := node.(type) {
	case string:
		if n != "" {
			*out = append(*out, Message{Path: p, Text: n})
		}
	case map[string]any:
		for k, v := range n {
			collectMessages(p.Child(k), v, out)
		}
	case []any:
		for i, v := range n {
			collectMessages(p.Child(i), v, out)
		}
	}
}

package wizard

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pcwizard/internal/binding"
	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/specialistvlad/pcwizard/internal/queues"
	"github.com/specialistvlad/pcwizard/internal/store"
)

// Session is one wizard run. It owns its store; nothing else writes the
// wizard subtree.
type Session struct {
	ctx     context.Context
	store   *store.Store
	variant queues.Variant
}

// NewSession creates a session with an empty store. The variant fixes the
// compute-resource shape for the whole session.
func NewSession(ctx context.Context, variant queues.Variant) *Session {
	ctxlog.FromContext(ctx).Debug("Wizard session created.", "variant", variant.Name())
	return &Session{ctx: ctx, store: store.New(), variant: variant}
}

// Store exposes the session's store to renderers and adapters.
func (s *Session) Store() *store.Store {
	return s.store
}

// Variant returns the compute-resource shape of the session.
func (s *Session) Variant() queues.Variant {
	return s.variant
}

// Field bindings for the wizard's top-level controls.

func (s *Session) Region() binding.Field[string] { return binding.String(s.store, RegionPath) }

func (s *Session) ClusterName() binding.Field[string] {
	return binding.String(s.store, ClusterNamePath)
}

func (s *Session) Editing() binding.Field[bool] { return binding.Bool(s.store, EditingPath) }

func (s *Session) Vpc() binding.Field[string] { return binding.String(s.store, VpcPath) }

func (s *Session) Page() binding.Field[string] { return binding.String(s.store, PagePath) }

func (s *Session) CustomAMIEnabled() binding.Field[bool] { return binding.Flag(s.store, CustomAMIPath) }

func (s *Session) CustomAMI() binding.Field[string] { return binding.String(s.store, CustomAmiPath) }

func (s *Session) MultiUser() binding.Field[bool] { return binding.Flag(s.store, MultiUserPath) }

func (s *Session) HeadNodeInstanceType() binding.Field[string] {
	return binding.String(s.store, HeadNodeTypePath)
}

func (s *Session) HeadNodeSubnet() binding.Field[string] {
	return binding.String(s.store, HeadNodeSubnetPath)
}

// Queue returns the compute-resource editor of the i-th queue.
func (s *Session) Queue(i int) *queues.Editor {
	return queues.NewEditor(s.ctx, s.store, s.variant, queues.Paths{
		Queue:            QueuePath(i),
		Overrides:        OverridesPath.Append("queues", i),
		EfaInstanceTypes: AwsEfaTypesPath,
	})
}

// QueueCount returns the number of configured queues.
func (s *Session) QueueCount() int {
	list, _ := s.get(QueuesPath).([]any)
	return len(list)
}

// AddQueue appends a queue named after the lowest free queue-<n> holding one
// default compute resource and returns its index. The queue starts in the
// head node's subnet when one is selected.
func (s *Session) AddQueue() (int, error) {
	index := s.QueueCount()
	queue, err := s.newQueue(s.freeQueueName())
	if err != nil {
		return 0, err
	}
	if subnet := s.HeadNodeSubnet().Read(); subnet != "" {
		queue["Networking"] = map[string]any{"SubnetIds": []any{subnet}}
	}
	if err := s.store.Set(QueuePath(index), queue); err != nil {
		return 0, err
	}
	ctxlog.FromContext(s.ctx).Debug("Queue added.", "index", index, "name", queue["Name"])
	return index, nil
}

// freeQueueName returns the first queue-<n> not used by any queue.
func (s *Session) freeQueueName() string {
	taken := map[string]struct{}{}
	for i, n := 0, s.QueueCount(); i < n; i++ {
		taken[binding.String(s.store, QueuePath(i).Child("Name")).Read()] = struct{}{}
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("queue-%d", n)
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}

// RemoveQueue deletes the i-th queue together with its recorded overrides.
func (s *Session) RemoveQueue(i int) error {
	if err := s.store.Clear(QueuePath(i)); err != nil {
		return err
	}
	return s.store.Clear(OverridesPath.Append("queues", i))
}

// newQueue builds the tree of a queue with one default compute resource.
func (s *Session) newQueue(name string) (map[string]any, error) {
	cr, err := s.variant.Create(name, 0).Tree()
	if err != nil {
		return nil, err
	}
	queue := map[string]any{
		"Name":             name,
		"ComputeResources": []any{cr},
	}
	for k, v := range s.variant.QueueDefaults() {
		queue[k] = v
	}
	return queue, nil
}

// SetPage records the current wizard page.
func (s *Session) SetPage(page string) error {
	return s.Page().Write(page)
}

// SetExistingClusters records the names used by the cluster-name uniqueness
// check.
func (s *Session) SetExistingClusters(names []string) error {
	return s.store.Set(ClusterNamesPath, names)
}

// SetMultiUser switches multi-user mode. Turning it off drops the directory
// service settings.
func (s *Session) SetMultiUser(enabled bool) error {
	if !enabled {
		if err := s.store.Clear(DirectoryServicePath); err != nil {
			return err
		}
	}
	return s.MultiUser().Write(enabled)
}

// SetCustomAMI switches custom-AMI mode. Turning it off drops the AMI id.
func (s *Session) SetCustomAMI(enabled bool) error {
	if !enabled {
		if err := s.CustomAMI().Clear(); err != nil {
			return err
		}
	}
	return s.CustomAMIEnabled().Write(enabled)
}

// SelectVpc sets the VPC and moves the head node and every queue whose
// subnet lies outside it onto the VPC's first known subnet.
func (s *Session) SelectVpc(vpcID string) error {
	if err := s.Vpc().Write(vpcID); err != nil {
		return err
	}
	if err := s.store.Clear(VpcErrorPath); err != nil {
		return err
	}

	var inVpc []string
	for _, sn := range s.subnets() {
		if sn.VpcID == vpcID {
			inVpc = append(inVpc, sn.SubnetID)
		}
	}
	if len(inVpc) == 0 {
		return nil
	}
	member := make(map[string]struct{}, len(inVpc))
	for _, id := range inVpc {
		member[id] = struct{}{}
	}
	first := inVpc[0]

	if _, ok := member[s.HeadNodeSubnet().Read()]; !ok {
		if err := s.HeadNodeSubnet().Write(first); err != nil {
			return err
		}
	}
	for i, n := 0, s.QueueCount(); i < n; i++ {
		field := binding.Strings(s.store, QueuePath(i).Append("Networking", "SubnetIds"))
		if allIn(field.Read(), member) {
			continue
		}
		if err := field.Write([]string{first}); err != nil {
			return err
		}
	}
	ctxlog.FromContext(s.ctx).Debug("VPC selected.", "vpc", vpcID, "defaultSubnet", first)
	return nil
}

func allIn(ids []string, set map[string]struct{}) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// get reads a fixed session path. A malformed fixed path is a bug in this
// package, so it panics.
func (s *Session) get(p docpath.Path) any {
	v, _, err := s.store.Get(p)
	if err != nil {
		panic(err)
	}
	return v
}

// must panics on store errors raised by writes to fixed session paths.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

package queues

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/pcwizard/internal/binding"
	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/specialistvlad/pcwizard/internal/store"
)

// Paths tells an Editor where its queue and supporting data live.
type Paths struct {
	// Queue addresses the queue object, e.g. ...SlurmQueues[0].
	Queue docpath.Path
	// Overrides addresses the per-queue record of explicit user choices.
	Overrides docpath.Path
	// EfaInstanceTypes addresses the list of EFA-capable instance types.
	EfaInstanceTypes docpath.Path
}

// Editor mutates the compute-resource list of one queue. Every method that
// changes a field other values derive from recomputes them in the same call.
type Editor struct {
	ctx     context.Context
	store   *store.Store
	variant Variant
	paths   Paths
}

// NewEditor creates an editor for the queue at paths.Queue.
func NewEditor(ctx context.Context, s *store.Store, v Variant, paths Paths) *Editor {
	return &Editor{ctx: ctx, store: s, variant: v, paths: paths}
}

func (e *Editor) listPath() docpath.Path {
	return e.paths.Queue.Append("ComputeResources")
}

func (e *Editor) entryPath(i int) docpath.Path {
	return e.listPath().Append(i)
}

func (e *Editor) efaOverridePath(i int) docpath.Path {
	return e.paths.Overrides.Append("computeResources", i, "efa")
}

func (e *Editor) placementGroupPath() docpath.Path {
	return e.paths.Queue.Append("Networking", "PlacementGroup", "Enabled")
}

// QueueName returns the owning queue's name, or "" when unset.
func (e *Editor) QueueName() (string, error) {
	v, _, err := e.store.Get(e.paths.Queue.Append("Name"))
	if err != nil {
		return "", err
	}
	name, _ := v.(string)
	return name, nil
}

// Entries returns the typed compute resources of the queue.
func (e *Editor) Entries() ([]ComputeResource, error) {
	v, _, err := e.store.Get(e.listPath())
	if err != nil {
		return nil, err
	}
	return DecodeComputeResources(v)
}

// Entry returns the compute resource at index i.
func (e *Editor) Entry(i int) (ComputeResource, error) {
	v, found, err := e.store.Get(e.entryPath(i))
	if err != nil {
		return ComputeResource{}, err
	}
	if !found {
		return ComputeResource{}, fmt.Errorf("compute resource %d of %s does not exist", i, e.paths.Queue)
	}
	return DecodeComputeResource(v)
}

// Add appends a default compute resource and returns its index.
func (e *Editor) Add() (int, error) {
	entries, err := e.Entries()
	if err != nil {
		return 0, err
	}
	name, err := e.QueueName()
	if err != nil {
		return 0, err
	}

	index := len(entries)
	tree, err := e.variant.Create(name, index).Tree()
	if err != nil {
		return 0, err
	}
	if err := e.store.Set(e.entryPath(index), tree); err != nil {
		return 0, err
	}
	ctxlog.FromContext(e.ctx).Debug("Compute resource added.", "queue", name, "index", index)
	return index, nil
}

// Remove deletes the entry at index i. Later entries keep their order and
// names.
func (e *Editor) Remove(i int) error {
	if err := e.store.Clear(e.entryPath(i)); err != nil {
		return err
	}
	if err := e.store.Clear(e.paths.Overrides.Append("computeResources", i)); err != nil {
		return err
	}
	ctxlog.FromContext(e.ctx).Debug("Compute resource removed.", "queue", e.paths.Queue.String(), "index", i)
	return nil
}

// RenameQueue sets the queue's name and regenerates every compute-resource
// name from it.
func (e *Editor) RenameQueue(name string) error {
	entries, err := e.Entries()
	if err != nil {
		return err
	}
	if err := e.store.Set(e.paths.Queue.Append("Name"), name); err != nil {
		return err
	}
	for i, cr := range RenameAll(e.variant, entries, name) {
		if err := e.store.Set(e.entryPath(i).Append("Name"), cr.Name); err != nil {
			return err
		}
	}
	return nil
}

// SetInstanceTypes stores the instance types of entry i, renames it and
// reconciles EFA. Moving to a type without EFA support always disables EFA;
// moving to a type with EFA support enables it unless the user explicitly
// turned it off for this entry.
func (e *Editor) SetInstanceTypes(i int, types ...string) error {
	key, value := e.variant.InstanceTypesField(types)
	if err := e.store.Set(e.entryPath(i).Append(key), value); err != nil {
		return err
	}

	cr, err := e.Entry(i)
	if err != nil {
		return err
	}
	queueName, err := e.QueueName()
	if err != nil {
		return err
	}
	if err := e.store.Set(e.entryPath(i).Append("Name"), DeriveName(e.variant, queueName, cr)); err != nil {
		return err
	}

	capable, err := e.efaCapable(e.variant.InstanceTypes(cr))
	if err != nil {
		return err
	}
	override, overridden, err := e.efaOverride(i)
	if err != nil {
		return err
	}

	switch {
	case !capable:
		if err := e.store.Clear(e.efaOverridePath(i)); err != nil {
			return err
		}
		if cr.EfaEnabled() {
			return e.applyEfa(i, false)
		}
	case !cr.EfaEnabled() && !(overridden && !override):
		return e.applyEfa(i, true)
	}
	return nil
}

// SetInstanceType is SetInstanceTypes for a single type.
func (e *Editor) SetInstanceType(i int, instanceType string) error {
	return e.SetInstanceTypes(i, instanceType)
}

// SetEfa records an explicit user choice for entry i and applies it.
func (e *Editor) SetEfa(i int, enabled bool) error {
	if err := e.store.Set(e.efaOverridePath(i), enabled); err != nil {
		return err
	}
	return e.applyEfa(i, enabled)
}

// applyEfa switches EFA and the queue's placement group together.
func (e *Editor) applyEfa(i int, enabled bool) error {
	ctxlog.FromContext(e.ctx).Debug("Applying EFA setting.", "queue", e.paths.Queue.String(), "index", i, "enabled", enabled)
	if enabled {
		if err := e.store.Set(e.entryPath(i).Append("Efa", "Enabled"), true); err != nil {
			return err
		}
		return e.store.Set(e.placementGroupPath(), true)
	}
	if err := e.store.Clear(e.entryPath(i).Append("Efa")); err != nil {
		return err
	}
	return e.store.Clear(e.placementGroupPath())
}

func (e *Editor) efaOverride(i int) (value, found bool, err error) {
	v, found, err := e.store.Get(e.efaOverridePath(i))
	if err != nil || !found {
		return false, false, err
	}
	b, ok := v.(bool)
	return b, ok, nil
}

func (e *Editor) efaCapable(types []string) (bool, error) {
	if len(types) == 0 {
		return false, nil
	}
	v, _, err := e.store.Get(e.paths.EfaInstanceTypes)
	if err != nil {
		return false, err
	}
	list, _ := v.([]any)
	supported := make(map[string]struct{}, len(list))
	for _, t := range list {
		if s, ok := t.(string); ok {
			supported[s] = struct{}{}
		}
	}
	for _, t := range types {
		if _, ok := supported[t]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// SetStaticNodes sets the static node count from raw input, keeping the
// dynamic count. Non-numeric or negative input counts as zero, and a zero
// static count clears MinCount instead of storing it.
func (e *Editor) SetStaticNodes(i int, input string) error {
	cr, err := e.Entry(i)
	if err != nil {
		return err
	}
	static := parseCount(input)
	dynamic := cr.DynamicNodes()

	if err := binding.Int(e.store, e.entryPath(i).Append("MinCount")).Write(static); err != nil {
		return err
	}
	return e.store.Set(e.entryPath(i).Append("MaxCount"), static+dynamic)
}

// SetDynamicNodes sets the dynamic node count from raw input, keeping the
// static count.
func (e *Editor) SetDynamicNodes(i int, input string) error {
	cr, err := e.Entry(i)
	if err != nil {
		return err
	}
	return e.store.Set(e.entryPath(i).Append("MaxCount"), cr.StaticNodes()+parseCount(input))
}

// SetDisableHT stores true or clears the multithreading switch of entry i.
func (e *Editor) SetDisableHT(i int, disable bool) error {
	return binding.Bool(e.store, e.entryPath(i).Append("DisableSimultaneousMultithreading")).Write(disable)
}

// SetSchedulableMemory stores the schedulable memory (MiB) of entry i while
// memory-based scheduling is enabled and the input is numeric, and clears it
// otherwise.
func (e *Editor) SetSchedulableMemory(i int, input string, memoryBasedScheduling bool) error {
	p := e.entryPath(i).Append("SchedulableMemory")
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if memoryBasedScheduling && err == nil {
		return e.store.Set(p, n)
	}
	return e.store.Clear(p)
}

// parseCount reads a node count from a form input, mapping anything that is
// not a non-negative integer to zero.
func parseCount(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

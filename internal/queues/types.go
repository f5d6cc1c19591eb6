package queues

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultInstanceType is the instance type of a freshly created compute resource.
const DefaultInstanceType = "c5n.large"

// Default node counts of a freshly created compute resource.
const (
	DefaultMinCount = 0
	DefaultMaxCount = 4
)

// Instance is one entry of a multi-instance-type compute resource.
type Instance struct {
	InstanceType string `yaml:"InstanceType"`
}

// Efa holds the Elastic Fabric Adapter settings of a compute resource.
type Efa struct {
	Enabled    bool `yaml:"Enabled,omitempty"`
	GdrSupport bool `yaml:"GdrSupport,omitempty"`
}

// ComputeResource is the typed view of one entry of a queue's ComputeResources list.
type ComputeResource struct {
	Name                              string     `yaml:"Name"`
	InstanceType                      string     `yaml:"InstanceType,omitempty"`
	Instances                         []Instance `yaml:"Instances,omitempty"`
	MinCount                          int        `yaml:"MinCount"`
	MaxCount                          int        `yaml:"MaxCount"`
	DisableSimultaneousMultithreading bool       `yaml:"DisableSimultaneousMultithreading,omitempty"`
	SchedulableMemory                 int        `yaml:"SchedulableMemory,omitempty"`
	Efa                               *Efa       `yaml:"Efa,omitempty"`
}

// StaticNodes is the number of always-on nodes.
func (cr ComputeResource) StaticNodes() int {
	return max(cr.MinCount, 0)
}

// DynamicNodes is the number of nodes launched on demand.
func (cr ComputeResource) DynamicNodes() int {
	return max(cr.MaxCount-cr.MinCount, 0)
}

// EfaEnabled reports whether EFA is switched on.
func (cr ComputeResource) EfaEnabled() bool {
	return cr.Efa != nil && cr.Efa.Enabled
}

// Tree converts the compute resource into the store's native shape.
func (cr ComputeResource) Tree() (map[string]any, error) {
	var out map[string]any
	if err := recode(cr, &out); err != nil {
		return nil, fmt.Errorf("encode compute resource %q: %w", cr.Name, err)
	}
	return out, nil
}

// DecodeComputeResource reads a compute resource from a store subtree.
func DecodeComputeResource(v any) (ComputeResource, error) {
	var cr ComputeResource
	if err := recode(v, &cr); err != nil {
		return ComputeResource{}, fmt.Errorf("decode compute resource: %w", err)
	}
	return cr, nil
}

// DecodeComputeResources reads a ComputeResources list from a store subtree.
// A missing list decodes to nil.
func DecodeComputeResources(v any) ([]ComputeResource, error) {
	if v == nil {
		return nil, nil
	}
	var crs []ComputeResource
	if err := recode(v, &crs); err != nil {
		return nil, fmt.Errorf("decode compute resources: %w", err)
	}
	return crs, nil
}

// recode moves a value between its typed and tree forms through YAML, the
// same encoding the configuration is submitted in.
func recode(in, out any) error {
	raw, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}

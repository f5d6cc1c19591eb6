package wizard

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/docpath"
	"gopkg.in/yaml.v3"
)

// Vpc is a VPC of the selected region.
type Vpc struct {
	VpcID string `yaml:"VpcId"`
	Name  string `yaml:"Name,omitempty"`
}

// Subnet is a subnet of the selected region.
type Subnet struct {
	SubnetID         string `yaml:"SubnetId"`
	VpcID            string `yaml:"VpcId"`
	AvailabilityZone string `yaml:"AvailabilityZone,omitempty"`
}

// RegionResources are the region-scoped AWS resources the wizard offers.
type RegionResources struct {
	Vpcs             []Vpc    `yaml:"vpcs"`
	Subnets          []Subnet `yaml:"subnets"`
	EfaInstanceTypes []string `yaml:"efa_instance_types"`
}

// RegionLoader fetches the resources of a region.
type RegionLoader interface {
	Load(ctx context.Context, region string) (RegionResources, error)
}

// LoadRegion fetches the region's resources and publishes them under aws.
// The previous region's resources are replaced as a whole.
func (s *Session) LoadRegion(ctx context.Context, loader RegionLoader, region string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading region resources.", "region", region)

	res, err := loader.Load(ctx, region)
	if err != nil {
		return fmt.Errorf("load resources of region %q: %w", region, err)
	}

	var tree map[string]any
	if err := recode(res, &tree); err != nil {
		return fmt.Errorf("encode resources of region %q: %w", region, err)
	}
	tree["region"] = region
	if _, err := s.store.Replace(AwsRegionPath.Parent(), tree); err != nil {
		return err
	}

	logger.Info("Region resources loaded.",
		"region", region,
		"vpcs", len(res.Vpcs),
		"subnets", len(res.Subnets),
		"efaInstanceTypes", len(res.EfaInstanceTypes))
	return nil
}

// RetargetRegion moves the configuration to region without the full reset of
// ChangeRegion. The VPC, every subnet and the custom AMI belong to the
// previous region and are cleared. It reports whether a different, non-empty
// region was replaced.
func (s *Session) RetargetRegion(region string) (bool, error) {
	previous := s.Region().Read()
	if err := s.Region().Write(region); err != nil {
		return false, err
	}
	if previous == "" || previous == region {
		return false, nil
	}

	scoped := []docpath.Path{VpcPath, HeadNodeSubnetPath, CustomAmiPath}
	for i, n := 0, s.QueueCount(); i < n; i++ {
		scoped = append(scoped, QueuePath(i).Append("Networking", "SubnetIds"))
	}
	for _, p := range scoped {
		if err := s.store.Clear(p); err != nil {
			return false, err
		}
	}

	ctxlog.FromContext(s.ctx).Warn("Region replaced, region-scoped settings cleared.",
		"from", previous, "to", region, "cleared", len(scoped))
	return true, nil
}

// subnets returns the subnets published for the current region.
func (s *Session) subnets() []Subnet {
	var out []Subnet
	if v := s.get(AwsSubnetsPath); v != nil {
		if err := recode(v, &out); err != nil {
			ctxlog.FromContext(s.ctx).Warn("Ignoring unreadable subnet list.", "error", err)
			return nil
		}
	}
	return out
}

// recode converts between typed values and store trees through YAML, the
// encoding the configuration is rendered in.
func recode(in, out any) error {
	raw, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}

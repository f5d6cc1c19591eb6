package regionconfig

import (
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/wizard"
)

// ClientFactory returns an EC2 client for a region.
type ClientFactory func(region string) (ec2iface.EC2API, error)

// Loader implements wizard.RegionLoader on top of EC2.
type Loader struct {
	newClient ClientFactory
}

// New returns a loader that opens an AWS session per region using the
// default credential chain.
func New() *Loader {
	return NewWithClientFactory(func(region string) (ec2iface.EC2API, error) {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(region)})
		if err != nil {
			return nil, fmt.Errorf("error creating AWS EC2 client session: %w", err)
		}
		return ec2.New(sess), nil
	})
}

// NewWithClientFactory returns a loader using newClient for EC2 access.
func NewWithClientFactory(newClient ClientFactory) *Loader {
	return &Loader{newClient: newClient}
}

var _ wizard.RegionLoader = (*Loader)(nil)

// Load fetches VPCs, subnets and EFA-capable instance types of region.
func (l *Loader) Load(ctx context.Context, region string) (wizard.RegionResources, error) {
	logger := ctxlog.FromContext(ctx)

	client, err := l.newClient(region)
	if err != nil {
		return wizard.RegionResources{}, err
	}

	var res wizard.RegionResources
	err = client.DescribeVpcsPagesWithContext(ctx, &ec2.DescribeVpcsInput{},
		func(page *ec2.DescribeVpcsOutput, _ bool) bool {
			for _, v := range page.Vpcs {
				res.Vpcs = append(res.Vpcs, wizard.Vpc{
					VpcID: aws.StringValue(v.VpcId),
					Name:  nameTag(v.Tags),
				})
			}
			return true
		})
	if err != nil {
		return wizard.RegionResources{}, fmt.Errorf("describe VPCs in %s: %w", region, err)
	}
	logger.Debug("VPCs described.", "region", region, "count", len(res.Vpcs))

	err = client.DescribeSubnetsPagesWithContext(ctx, &ec2.DescribeSubnetsInput{},
		func(page *ec2.DescribeSubnetsOutput, _ bool) bool {
			for _, s := range page.Subnets {
				res.Subnets = append(res.Subnets, wizard.Subnet{
					SubnetID:         aws.StringValue(s.SubnetId),
					VpcID:            aws.StringValue(s.VpcId),
					AvailabilityZone: aws.StringValue(s.AvailabilityZone),
				})
			}
			return true
		})
	if err != nil {
		return wizard.RegionResources{}, fmt.Errorf("describe subnets in %s: %w", region, err)
	}
	logger.Debug("Subnets described.", "region", region, "count", len(res.Subnets))

	input := &ec2.DescribeInstanceTypesInput{
		Filters: []*ec2.Filter{{
			Name:   aws.String("network-info.efa-supported"),
			Values: aws.StringSlice([]string{"true"}),
		}},
	}
	err = client.DescribeInstanceTypesPagesWithContext(ctx, input,
		func(page *ec2.DescribeInstanceTypesOutput, _ bool) bool {
			for _, it := range page.InstanceTypes {
				res.EfaInstanceTypes = append(res.EfaInstanceTypes, aws.StringValue(it.InstanceType))
			}
			return true
		})
	if err != nil {
		return wizard.RegionResources{}, fmt.Errorf("describe EFA instance types in %s: %w", region, err)
	}
	slices.Sort(res.EfaInstanceTypes)
	logger.Debug("EFA instance types described.", "region", region, "count", len(res.EfaInstanceTypes))

	return res, nil
}

func nameTag(tags []*ec2.Tag) string {
	for _, t := range tags {
		if aws.StringValue(t.Key) == "Name" {
			return aws.StringValue(t.Value)
		}
	}
	return ""
}

// Package regionconfig loads the AWS resources the wizard offers for a
// region (VPCs, subnets and EFA-capable instance types) from the EC2 API.
package regionconfig

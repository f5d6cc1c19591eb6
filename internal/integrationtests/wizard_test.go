package integrationtests

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pcwizard/internal/app"
	"github.com/specialistvlad/pcwizard/internal/queues"
	"github.com/specialistvlad/pcwizard/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const hclCluster = `
Region = "eu-central-1"

HeadNode {
  InstanceType = "c5.xlarge"
  Networking {
    SubnetId = "subnet-lab-a"
  }
}

Scheduling {
  Scheduler = "slurm"

  SlurmQueues "gpu" {
    Networking {
      SubnetIds = ["subnet-lab-a"]
    }
    ComputeResources = [
      { Name = "gpu-p4d24xlarge", InstanceType = "p4d.24xlarge", MinCount = 1, MaxCount = 2 },
    ]
  }
}
`

func renderedConfig(t *testing.T, out string) map[string]any {
	t.Helper()
	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	return cfg
}

func TestWizard_HCLDraft(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := writeFiles(t, map[string]string{"cluster.hcl": hclCluster})

	// --- Act ---
	out, err := runWizard(t, app.Config{DraftPath: filepath.Join(dir, "cluster.hcl"), ClusterName: "lab"})

	// --- Assert ---
	require.NoError(t, err)
	cfg := renderedConfig(t, out)
	assert.Equal(t, "eu-central-1", cfg["Region"])

	queue := cfg["Scheduling"].(map[string]any)["SlurmQueues"].([]any)[0].(map[string]any)
	assert.Equal(t, "gpu", queue["Name"])
	cr := queue["ComputeResources"].([]any)[0].(map[string]any)
	assert.Equal(t, "p4d.24xlarge", cr["InstanceType"])
	assert.Equal(t, 1, cr["MinCount"])
}

func TestWizard_DirectoryDraftWithVpcSwitch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The override file moves the cluster to another region and the --vpc
	// flag then relocates every subnet into the chosen VPC.
	dir := writeFiles(t, map[string]string{
		"10-cluster.hcl": hclCluster,
		"20-region.yaml": "Region: us-west-2\n",
	})

	// --- Act ---
	out, err := runWizard(t, app.Config{DraftPath: dir, ClusterName: "lab", Vpc: "vpc-main"})

	// --- Assert ---
	require.NoError(t, err)
	cfg := renderedConfig(t, out)
	assert.Equal(t, "us-west-2", cfg["Region"])
	headNode := cfg["HeadNode"].(map[string]any)
	assert.Equal(t, "subnet-main-a", headNode["Networking"].(map[string]any)["SubnetId"])
	queue := cfg["Scheduling"].(map[string]any)["SlurmQueues"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"subnet-main-a"}, queue["Networking"].(map[string]any)["SubnetIds"])
}

func TestWizard_InvalidDraftListsEveryProblem(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := writeFiles(t, map[string]string{"cluster.yaml": `
Region: eu-west-1
HeadNode:
  InstanceType: ""
Scheduling:
  Scheduler: slurm
  SlurmSettings:
    Database:
      Uri: db.example.com:3306
      UserName: admin
      PasswordSecretArn: not-an-arn
  SlurmQueues:
    - Name: Bad_Queue
      ComputeResources:
        - Name: a
          InstanceType: c5.large
          MinCount: 0
          MaxCount: 1
        - Name: b
          InstanceType: c5.large
          MinCount: 0
          MaxCount: 1
`})

	// --- Act ---
	out, err := runWizard(t, app.Config{DraftPath: filepath.Join(dir, "cluster.yaml"), ClusterName: "9lives"})

	// --- Assert ---
	require.ErrorIs(t, err, wizard.ErrInvalidConfiguration)
	for _, line := range []string{
		"wizard.errors.cluster.clusterName: " + wizard.MsgClusterNameFormat,
		"wizard.errors.cluster.slurmAccounting.passwordSecretArn: " + wizard.MsgDatabaseSecretInvalidArn,
		"wizard.errors.cluster.vpc: " + wizard.MsgVpcRequired,
		"wizard.errors.headNode.instanceType: " + wizard.MsgHeadNodeTypeRequired,
		"wizard.errors.headNode.subnet: " + wizard.MsgHeadNodeSubnetRequired,
		"wizard.errors.queues[0].name: " + wizard.MsgQueueNameFormat,
		"wizard.errors.queues[0].subnet: " + wizard.MsgQueueSubnetRequired,
		"wizard.errors.queues[0].computeResources[1]: " + queues.MsgInstanceTypeUnique,
	} {
		assert.Contains(t, out, line+"\n")
	}
	assert.NotContains(t, out, "computeResources[0]")
}

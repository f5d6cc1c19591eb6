package integrationtests

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pcwizard/internal/app"
	"github.com/specialistvlad/pcwizard/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existingCluster = `Region: eu-west-1
Image:
  Os: alinux2
HeadNode:
  InstanceType: t3.medium
  Networking:
    SubnetId: subnet-main-b
Scheduling:
  Scheduler: slurm
  SlurmQueues:
    - Name: batch
      Networking:
        SubnetIds: [subnet-main-b]
      ComputeResources:
        - Name: batch-c5large
          InstanceType: c5.large
          MinCount: 0
          MaxCount: 8
`

func TestAPI_CreateWithDryRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	api := newClusterAPI(t, map[string]string{"prod": existingCluster})

	// --- Act ---
	out, err := runWizard(t, app.Config{
		Region:      "eu-west-1",
		ClusterName: "fresh",
		Vpc:         "vpc-main",
		APIURL:      api.server.URL,
		Submit:      true,
		DryRun:      true,
	})

	// --- Assert ---
	require.NoError(t, err)
	changes := api.recorded()
	require.Len(t, changes, 1)
	assert.Equal(t, http.MethodPost, changes[0].Method)
	assert.Equal(t, "fresh", changes[0].Cluster)
	assert.True(t, changes[0].DryRun)
	assert.Equal(t, out, changes[0].Configuration, "the printed configuration is the submitted one")
}

func TestAPI_NameTakenBlocksSubmission(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	api := newClusterAPI(t, map[string]string{"prod": existingCluster})

	// --- Act ---
	out, err := runWizard(t, app.Config{
		Region:      "eu-west-1",
		ClusterName: "prod",
		Vpc:         "vpc-main",
		APIURL:      api.server.URL,
		Submit:      true,
	})

	// --- Assert ---
	require.ErrorIs(t, err, wizard.ErrInvalidConfiguration)
	assert.Contains(t, out, "wizard.errors.cluster.clusterName: "+wizard.MsgClusterNameExists)
	assert.Empty(t, api.recorded())
}

func TestAPI_EditExistingCluster(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	api := newClusterAPI(t, map[string]string{"prod": existingCluster})

	// --- Act ---
	out, err := runWizard(t, app.Config{
		Edit:        true,
		ClusterName: "prod",
		APIURL:      api.server.URL,
		Submit:      true,
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out, "InstanceType: t3.medium")

	changes := api.recorded()
	require.Len(t, changes, 1)
	assert.Equal(t, http.MethodPut, changes[0].Method)
	assert.Equal(t, "prod", changes[0].Cluster)
	assert.False(t, changes[0].DryRun)
}

func TestAPI_EditUnknownCluster(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	api := newClusterAPI(t, nil)

	// --- Act ---
	_, err := runWizard(t, app.Config{Edit: true, ClusterName: "ghost", APIURL: api.server.URL})

	// --- Assert ---
	require.ErrorContains(t, err, "failed to fetch cluster configuration")
	require.ErrorContains(t, err, "cluster not found")
}

func TestAPI_EditFromDraftSkipsDownload(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	api := newClusterAPI(t, map[string]string{"prod": "Region: [broken"})
	dir := writeFiles(t, map[string]string{"prod.yaml": existingCluster})

	// --- Act ---
	_, err := runWizard(t, app.Config{
		Edit:        true,
		ClusterName: "prod",
		DraftPath:   filepath.Join(dir, "prod.yaml"),
		APIURL:      api.server.URL,
		Submit:      true,
		DryRun:      true,
	})

	// --- Assert ---
	require.NoError(t, err)
	changes := api.recorded()
	require.Len(t, changes, 1)
	assert.Equal(t, http.MethodPut, changes[0].Method)
	assert.True(t, changes[0].DryRun)
}

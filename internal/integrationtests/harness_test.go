package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/pcwizard/internal/app"
	"github.com/specialistvlad/pcwizard/internal/testutil"
	"github.com/specialistvlad/pcwizard/internal/wizard"
	"github.com/stretchr/testify/require"
)

type staticRegions struct{}

func (staticRegions) Load(_ context.Context, region string) (wizard.RegionResources, error) {
	return wizard.RegionResources{
		Vpcs: []wizard.Vpc{{VpcID: "vpc-main", Name: "main"}, {VpcID: "vpc-lab"}},
		Subnets: []wizard.Subnet{
			{SubnetID: "subnet-main-a", VpcID: "vpc-main", AvailabilityZone: region + "a"},
			{SubnetID: "subnet-main-b", VpcID: "vpc-main", AvailabilityZone: region + "b"},
			{SubnetID: "subnet-lab-a", VpcID: "vpc-lab", AvailabilityZone: region + "a"},
		},
		EfaInstanceTypes: []string{"c5n.18xlarge", "p4d.24xlarge"},
	}, nil
}

// clusterAPI is an in-process cluster API with a fixed set of clusters.
type clusterAPI struct {
	server *httptest.Server

	mu      sync.Mutex
	configs map[string]string
	changes []change
}

type change struct {
	Method        string
	Cluster       string
	DryRun        bool
	Configuration string
}

func newClusterAPI(t *testing.T, configs map[string]string) *clusterAPI {
	t.Helper()
	api := &clusterAPI{configs: configs}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v3/clusters", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		var clusters []map[string]any
		for name := range api.configs {
			clusters = append(clusters, map[string]any{"clusterName": name, "region": r.URL.Query().Get("region")})
		}
		writeJSON(w, http.StatusOK, map[string]any{"clusters": clusters})
	})
	mux.HandleFunc("GET /v3/clusters/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		api.mu.Lock()
		_, ok := api.configs[name]
		api.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "cluster does not exist"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"clusterName":          name,
			"clusterConfiguration": map[string]any{"url": api.server.URL + "/configs/" + name},
		})
	})
	mux.HandleFunc("GET /configs/{name}", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		_, _ = w.Write([]byte(api.configs[r.PathValue("name")]))
	})
	record := func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ClusterName          string `json:"clusterName"`
			ClusterConfiguration string `json:"clusterConfiguration"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		name := body.ClusterName
		if r.Method == http.MethodPut {
			name = r.PathValue("name")
		}
		dryRun := r.URL.Query().Get("dryrun") == "true"

		api.mu.Lock()
		api.changes = append(api.changes, change{Method: r.Method, Cluster: name, DryRun: dryRun, Configuration: body.ClusterConfiguration})
		api.mu.Unlock()

		if dryRun {
			writeJSON(w, http.StatusPreconditionFailed, map[string]any{"message": "Request would have succeeded, but DryRun flag is set."})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"cluster": map[string]any{"clusterName": name, "clusterStatus": "CREATE_IN_PROGRESS"}})
	}
	mux.HandleFunc("POST /v3/clusters", record)
	mux.HandleFunc("PUT /v3/clusters/{name}", record)

	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *clusterAPI) recorded() []change {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]change(nil), a.changes...)
}

// writeFiles creates the given files under a fresh directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

// runWizard runs the app the way the entrypoint does, with the region
// loader replaced by a static one.
func runWizard(t *testing.T, cfg app.Config) (string, error) {
	t.Helper()
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)
	if config.LogLevel == "" {
		config.LogLevel = "debug"
	}

	ctx, logs := testutil.NewContext(t)
	var out bytes.Buffer
	runErr := app.NewApp(&out, logs, config, app.WithRegionLoader(staticRegions{})).Run(ctx)
	return out.String(), runErr
}

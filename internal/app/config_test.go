package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "edit from draft", cfg: Config{Edit: true, ClusterName: "demo", DraftPath: "c.yaml"}},
		{name: "edit from api", cfg: Config{Edit: true, ClusterName: "demo", APIURL: "http://api"}},
		{name: "dry run", cfg: Config{Submit: true, DryRun: true, APIURL: "http://api"}},
		{
			name:    "edit without source",
			cfg:     Config{Edit: true, ClusterName: "demo"},
			wantErr: "editing requires a draft or an API URL to fetch the cluster configuration from",
		},
		{
			name:    "problems are joined",
			cfg:     Config{Edit: true, DryRun: true},
			wantErr: "editing requires a cluster name; editing requires a draft or an API URL to fetch the cluster configuration from; a dry run only applies when submitting",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *got)
		})
	}
}

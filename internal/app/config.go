package app

import (
	"errors"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DraftPath          string // yaml or hcl file, or a directory of them
	Region             string
	ClusterName        string
	MultiInstanceTypes bool
	Edit               bool
	Vpc                string

	AwsLookup bool
	APIURL    string
	Submit    bool
	DryRun    bool

	LogFormat string
	LogLevel  string
}

// NewConfig checks that the combination of settings can run.
func NewConfig(cfg Config) (*Config, error) {
	var problems []string

	if cfg.Edit && cfg.ClusterName == "" {
		problems = append(problems, "editing requires a cluster name")
	}
	if cfg.Edit && cfg.DraftPath == "" && cfg.APIURL == "" {
		problems = append(problems, "editing requires a draft or an API URL to fetch the cluster configuration from")
	}
	if cfg.Submit && cfg.APIURL == "" {
		problems = append(problems, "submitting requires an API URL")
	}
	if cfg.DryRun && !cfg.Submit {
		problems = append(problems, "a dry run only applies when submitting")
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return &cfg, nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/specialistvlad/pcwizard/internal/app"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variables that provide flag defaults.
const EnvPrefix = "PCWIZARD"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// env holds the defaults read from PCWIZARD_* variables.
type env struct {
	Region    string `envconfig:"REGION"`
	APIURL    string `envconfig:"API_URL"`
	AwsLookup bool   `envconfig:"AWS_LOOKUP"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var defaults env
	if err := envconfig.Process(EnvPrefix, &defaults); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := pflag.NewFlagSet("pcwizard", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pcwizard - Builds and validates ParallelCluster cluster configurations.

Usage:
  pcwizard [options] [DRAFT_PATH]

Arguments:
  DRAFT_PATH
    Path to a .yaml, .yml or .hcl draft, or a directory of drafts.
    Without a draft the wizard starts from the default configuration.

Options:
`)
		flagSet.PrintDefaults()
	}

	draftFlag := flagSet.StringP("draft", "d", "", "Path to the draft file or directory.")
	regionFlag := flagSet.StringP("region", "r", defaults.Region, "AWS region of the cluster. Overrides the draft's Region.")
	nameFlag := flagSet.StringP("cluster-name", "n", "", "Name of the cluster to create or edit.")
	vpcFlag := flagSet.String("vpc", "", "VPC to place the head node and queues in.")
	multiFlag := flagSet.Bool("multi-instance-types", false, "Allow several instance types per compute resource.")
	editFlag := flagSet.Bool("edit", false, "Edit the existing cluster named by --cluster-name.")
	awsFlag := flagSet.Bool("aws-lookup", defaults.AwsLookup, "Read VPCs, subnets and EFA instance types from EC2.")
	apiFlag := flagSet.String("api-url", defaults.APIURL, "Base URL of the ParallelCluster API.")
	submitFlag := flagSet.Bool("submit", false, "Create or update the cluster after validation.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Ask the API to validate the submission without applying it.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *draftFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	slog.Debug("Draft path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DraftPath:          path,
		Region:             *regionFlag,
		ClusterName:        *nameFlag,
		MultiInstanceTypes: *multiFlag,
		Edit:               *editFlag,
		Vpc:                *vpcFlag,
		AwsLookup:          *awsFlag,
		APIURL:             *apiFlag,
		Submit:             *submitFlag,
		DryRun:             *dryRunFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

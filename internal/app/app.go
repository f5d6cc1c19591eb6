package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/pcwizard/internal/pcapi"
	"github.com/specialistvlad/pcwizard/internal/regionconfig"
	"github.com/specialistvlad/pcwizard/internal/wizard"
)

// ClusterAPI is what the app needs from the cluster management API.
type ClusterAPI interface {
	wizard.Submitter
	ListClusterNames(ctx context.Context, region string) ([]string, error)
	GetClusterConfiguration(ctx context.Context, name, region string) ([]byte, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	regions wizard.RegionLoader
	api     ClusterAPI
	closers []func() error
}

// Option replaces a default dependency, mainly for tests.
type Option func(*App)

// WithRegionLoader makes the app read region resources from l.
func WithRegionLoader(l wizard.RegionLoader) Option {
	return func(a *App) { a.regions = l }
}

// WithClusterAPI makes the app talk to api instead of an HTTP client.
func WithClusterAPI(api ClusterAPI) Option {
	return func(a *App) { a.api = api }
}

// NewApp is the constructor for the main application. The rendered
// configuration and validation messages go to outW, logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{outW: outW, logger: logger, config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.regions == nil && cfg.AwsLookup {
		a.regions = regionconfig.New()
		logger.Debug("Using EC2 for region resources.")
	}
	if a.api == nil && cfg.APIURL != "" {
		client := pcapi.New(cfg.APIURL)
		a.api = client
		a.closers = append(a.closers, client.Close)
		logger.Debug("Using cluster API.", "url", cfg.APIURL)
	}
	return a
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("Failed to release resource.", "error", err)
		}
	}
}

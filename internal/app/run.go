package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"github.com/specialistvlad/pcwizard/internal/draft"
	"github.com/specialistvlad/pcwizard/internal/queues"
	"github.com/specialistvlad/pcwizard/internal/wizard"
)

// Run drives one wizard session: it loads the starting configuration,
// applies the flags, validates every step and prints the YAML result or the
// validation messages. A configuration that fails validation yields an error
// wrapping wizard.ErrInvalidConfiguration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	defer a.close()
	a.logger.Debug("App.Run method started.")

	session := wizard.NewSession(ctx, queues.For(a.config.MultiInstanceTypes))
	if err := a.prepare(ctx, session); err != nil {
		return err
	}

	if !session.ValidateAll() {
		return a.reportInvalid(session)
	}

	rendered, err := session.Render()
	if err != nil {
		return err
	}
	if _, err := a.outW.Write(rendered); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}

	if a.config.Submit {
		err := session.Submit(ctx, a.api, a.config.DryRun)
		if errors.Is(err, wizard.ErrInvalidConfiguration) {
			return a.reportInvalid(session)
		}
		if err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// prepare fills the session from the draft, the cluster API and the flags.
// Region resources and existing cluster names are fetched for the region the
// loaded configuration ends up in.
func (a *App) prepare(ctx context.Context, session *wizard.Session) error {
	cfg := a.config

	if err := a.load(ctx, session); err != nil {
		return err
	}
	if cfg.Region != "" && !cfg.Edit {
		if _, err := session.RetargetRegion(cfg.Region); err != nil {
			return err
		}
	}
	if cfg.ClusterName != "" && !cfg.Edit {
		if err := session.ClusterName().Write(cfg.ClusterName); err != nil {
			return err
		}
	}

	region := session.Region().Read()
	if a.regions != nil && region != "" {
		if err := session.LoadRegion(ctx, a.regions, region); err != nil {
			return err
		}
	}
	if a.api != nil {
		names, err := a.api.ListClusterNames(ctx, region)
		if err != nil {
			return fmt.Errorf("failed to list clusters: %w", err)
		}
		if err := session.SetExistingClusters(names); err != nil {
			return err
		}
	}

	if cfg.Vpc != "" {
		return session.SelectVpc(cfg.Vpc)
	}
	_, err := session.InferVpc()
	return err
}

// load seeds the configuration: the cluster being edited, a draft, or the
// default skeleton.
func (a *App) load(ctx context.Context, session *wizard.Session) error {
	cfg := a.config

	var doc map[string]any
	if cfg.DraftPath != "" {
		loaded, err := draft.Load(ctx, cfg.DraftPath)
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}
		doc = loaded
	}

	switch {
	case cfg.Edit && doc != nil:
		return session.EditCluster(cfg.ClusterName, doc)
	case cfg.Edit:
		raw, err := a.api.GetClusterConfiguration(ctx, cfg.ClusterName, cfg.Region)
		if err != nil {
			return fmt.Errorf("failed to fetch cluster configuration: %w", err)
		}
		return session.LoadExisting(cfg.ClusterName, raw)
	case doc != nil:
		return session.LoadConfig(wizard.Source{Type: "file", Path: cfg.DraftPath}, doc)
	default:
		_, err := session.Start(cfg.Region)
		return err
	}
}

func (a *App) reportInvalid(session *wizard.Session) error {
	messages := session.Messages()
	for _, m := range messages {
		fmt.Fprintf(a.outW, "%s: %s\n", m.Path, m.Text)
	}
	a.logger.Warn("Configuration is invalid.", "problems", len(messages))
	return fmt.Errorf("%w: %d problem(s)", wizard.ErrInvalidConfiguration, len(messages))
}

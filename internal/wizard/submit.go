package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfiguration is returned by Submit while the errors subtree
// holds any message. The messages themselves stay in the store.
var ErrInvalidConfiguration = errors.New("wizard: configuration is invalid")

// Submission is what a Submitter receives: the rendered configuration plus
// the session facts needed to route it.
type Submission struct {
	ClusterName string
	Region      string
	Editing     bool
	DryRun      bool
	// Configuration is the YAML cluster configuration.
	Configuration []byte
}

// Submitter hands a configuration to whatever creates or updates clusters.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// Render serialises the configuration as YAML.
func (s *Session) Render() ([]byte, error) {
	config, _ := s.get(ConfigPath).(map[string]any)
	if config == nil {
		config = map[string]any{}
	}
	out, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("render configuration: %w", err)
	}
	return out, nil
}

// Submit validates every step and, when nothing is reported, hands the
// rendered configuration to sub. A successful real submission ends the
// session's wizard state; a dry run keeps it.
func (s *Session) Submit(ctx context.Context, sub Submitter, dryRun bool) error {
	logger := ctxlog.FromContext(ctx)

	if !s.ValidateAll() || s.HasErrors() {
		logger.Debug("Submission blocked by validation errors.")
		return ErrInvalidConfiguration
	}

	rendered, err := s.Render()
	if err != nil {
		return err
	}
	submission := Submission{
		ClusterName:   s.ClusterName().Read(),
		Region:        s.Region().Read(),
		Editing:       s.Editing().Read(),
		DryRun:        dryRun,
		Configuration: rendered,
	}
	if err := sub.Submit(ctx, submission); err != nil {
		return fmt.Errorf("submit cluster %q: %w", submission.ClusterName, err)
	}
	logger.Info("Configuration submitted.", "cluster", submission.ClusterName, "editing", submission.Editing, "dryRun", dryRun)

	if dryRun {
		return nil
	}
	return s.Discard()
}

// Discard drops the wizard state. Region resources and cluster names stay.
func (s *Session) Discard() error {
	if err := s.store.Clear(WizardPath); err != nil {
		return err
	}
	ctxlog.FromContext(s.ctx).Debug("Wizard state discarded.")
	return nil
}

package wizard

import (
	"fmt"

	"github.com/specialistvlad/pcwizard/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Defaults of a fresh configuration.
const (
	DefaultHeadNodeInstanceType = "t2.micro"
	DefaultScheduler            = "slurm"
	DefaultOs                   = "alinux2"
	DefaultQueueName            = "queue-1"
)

// Source describes where the configuration of a session came from.
type Source struct {
	// Type is "wizard", "file" or "cluster".
	Type string
	Name string
	Path string
}

// resetKeep lists the wizard keys that survive a region change.
var resetKeep = []string{"page", "source", "clusterName", "errors"}

// InitState writes the minimal valid skeleton: head node type, scheduler,
// region, OS and a single default queue. Custom-AMI mode follows whether
// existing carries Image.CustomAmi. Running it twice yields the same
// configuration as running it once.
func (s *Session) InitState(existing map[string]any, region string) error {
	queue, err := s.newQueue(DefaultQueueName)
	if err != nil {
		return err
	}

	writes := []struct {
		set   func() error
		field string
	}{
		{func() error { return s.CustomAMIEnabled().Write(hasCustomAmi(existing)) }, "customAMI"},
		{func() error { return s.HeadNodeInstanceType().Write(DefaultHeadNodeInstanceType) }, "HeadNode.InstanceType"},
		{func() error { return s.store.Set(SchedulerPath, DefaultScheduler) }, "Scheduling.Scheduler"},
		{func() error { return s.store.Set(RegionPath, region) }, "Region"},
		{func() error { return s.store.Set(ImageOsPath, DefaultOs) }, "Image.Os"},
		{func() error { return s.store.Set(QueuesPath, []any{queue}) }, "Scheduling.SlurmQueues"},
	}
	for _, w := range writes {
		if err := w.set(); err != nil {
			return fmt.Errorf("initialise %s: %w", w.field, err)
		}
	}

	ctxlog.FromContext(s.ctx).Debug("Wizard state initialised.", "region", region, "variant", s.variant.Name())
	return nil
}

func hasCustomAmi(config map[string]any) bool {
	image, _ := config["Image"].(map[string]any)
	ami, _ := image["CustomAmi"].(string)
	return ami != ""
}

// Start initialises the session once: it is a no-op when a configuration is
// already present, e.g. after navigating back to the first page. It reports
// whether it initialised.
func (s *Session) Start(region string) (bool, error) {
	if _, found, err := s.store.Get(ConfigPath); err != nil || found {
		return false, err
	}
	if err := s.InitState(nil, region); err != nil {
		return false, err
	}
	ctxlog.FromContext(s.ctx).Info("Wizard started.", "region", region)
	return true, nil
}

// ChangeRegion drops everything under wizard except the current page, the
// load source, the cluster name and the errors, then initialises a fresh
// configuration for region. Region-scoped values such as subnets and AMIs
// are never carried over.
func (s *Session) ChangeRegion(region string) error {
	if err := s.store.Clear(RegionErrorPath); err != nil {
		return err
	}

	current, _ := s.get(WizardPath).(map[string]any)
	kept := map[string]any{}
	for _, k := range resetKeep {
		if v, ok := current[k]; ok {
			kept[k] = v
		}
	}
	previous, err := s.store.Replace(WizardPath, kept)
	if err != nil {
		return err
	}

	wizard, _ := previous.(map[string]any)
	config, _ := wizard["config"].(map[string]any)
	if err := s.InitState(config, region); err != nil {
		return err
	}
	ctxlog.FromContext(s.ctx).Info("Region changed, wizard reset.", "region", region)
	return nil
}

// LoadConfig replaces the configuration with cfg and derives the mode
// switches it implies.
func (s *Session) LoadConfig(src Source, cfg map[string]any) error {
	source := map[string]any{"type": src.Type, "loading": true}
	if src.Name != "" {
		source["name"] = src.Name
	}
	if src.Path != "" {
		source["path"] = src.Path
	}
	if err := s.store.Set(SourcePath, source); err != nil {
		return err
	}
	defer func() { must(s.store.Clear(SourcePath.Child("loading"))) }()

	if err := s.store.Set(ConfigPath, cfg); err != nil {
		return fmt.Errorf("load configuration from %s %q: %w", src.Type, src.Name, err)
	}
	if err := s.CustomAMIEnabled().Write(hasCustomAmi(cfg)); err != nil {
		return err
	}
	_, directory := cfg["DirectoryService"]
	if err := s.MultiUser().Write(directory); err != nil {
		return err
	}
	if _, err := s.InferVpc(); err != nil {
		return err
	}

	ctxlog.FromContext(s.ctx).Info("Configuration loaded.", "source", src.Type, "name", src.Name, "queues", s.QueueCount())
	return nil
}

// LoadExisting enters edit mode for the named cluster using its YAML
// configuration.
func (s *Session) LoadExisting(name string, raw []byte) error {
	var cfg map[string]any
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parse configuration of cluster %q: %w", name, err)
	}
	return s.EditCluster(name, cfg)
}

// EditCluster enters edit mode for the named cluster with an already parsed
// configuration.
func (s *Session) EditCluster(name string, cfg map[string]any) error {
	if cfg == nil {
		cfg = map[string]any{}
	}
	if err := s.ClusterName().Write(name); err != nil {
		return err
	}
	if err := s.Editing().Write(true); err != nil {
		return err
	}
	return s.LoadConfig(Source{Type: "cluster", Name: name}, cfg)
}

// InferVpc selects the VPC of the head node's subnet when no VPC is chosen
// yet and the subnet is known. It reports whether it selected one.
func (s *Session) InferVpc() (bool, error) {
	if s.Vpc().Read() != "" {
		return false, nil
	}
	vpc := s.vpcOf(s.HeadNodeSubnet().Read())
	if vpc == "" {
		return false, nil
	}
	return true, s.Vpc().Write(vpc)
}

// vpcOf returns the VPC a known subnet belongs to, or "".
func (s *Session) vpcOf(subnetID string) string {
	if subnetID == "" {
		return ""
	}
	for _, sn := range s.subnets() {
		if sn.SubnetID == subnetID {
			return sn.VpcID
		}
	}
	return ""
}

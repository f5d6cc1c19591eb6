package wizard

import "github.com/specialistvlad/pcwizard/internal/docpath"

// Store locations used by a session. Renderers subscribe to these.
var (
	WizardPath       = docpath.New("wizard")
	ConfigPath       = WizardPath.Child("config")
	ErrorsPath       = WizardPath.Child("errors")
	PagePath         = WizardPath.Child("page")
	SourcePath       = WizardPath.Child("source")
	ClusterNamePath  = WizardPath.Child("clusterName")
	EditingPath      = WizardPath.Child("editing")
	VpcPath          = WizardPath.Child("vpc")
	CustomAMIPath    = WizardPath.Append("customAMI", "enabled")
	MultiUserPath    = WizardPath.Child("multiUser")
	OverridesPath    = WizardPath.Child("overrides")
	ValidatedPath    = WizardPath.Child("validated")
	AwsRegionPath    = docpath.New("aws", "region")
	AwsVpcsPath      = docpath.New("aws", "vpcs")
	AwsSubnetsPath   = docpath.New("aws", "subnets")
	AwsEfaTypesPath  = docpath.New("aws", "efa_instance_types")
	ClusterNamesPath = docpath.New("clusters", "names")
)

// Configuration fields the session reads or derives.
var (
	RegionPath           = ConfigPath.Child("Region")
	ImageOsPath          = ConfigPath.Append("Image", "Os")
	CustomAmiPath        = ConfigPath.Append("Image", "CustomAmi")
	HeadNodeTypePath     = ConfigPath.Append("HeadNode", "InstanceType")
	HeadNodeSubnetPath   = ConfigPath.Append("HeadNode", "Networking", "SubnetId")
	SchedulerPath        = ConfigPath.Append("Scheduling", "Scheduler")
	QueuesPath           = ConfigPath.Append("Scheduling", "SlurmQueues")
	DatabasePath         = ConfigPath.Append("Scheduling", "SlurmSettings", "Database")
	DirectoryServicePath = ConfigPath.Child("DirectoryService")
)

// Error locations, one per checked field.
var (
	clusterErrors  = ErrorsPath.Child("cluster")
	headNodeErrors = ErrorsPath.Child("headNode")
	queueErrors    = ErrorsPath.Child("queues")

	// schedulingErrors holds problems with the queue list as a whole.
	schedulingErrors = ErrorsPath.Child("scheduling")

	RegionErrorPath         = clusterErrors.Child("region")
	VpcErrorPath            = clusterErrors.Child("vpc")
	CustomAmiErrorPath      = clusterErrors.Child("customAmi")
	ClusterNameErrorPath    = clusterErrors.Child("clusterName")
	MultiUserErrorPath      = clusterErrors.Child("multiUser")
	AccountingErrorPath     = clusterErrors.Child("slurmAccounting")
	HeadNodeTypeErrorPath   = headNodeErrors.Child("instanceType")
	HeadNodeSubnetErrorPath = headNodeErrors.Child("subnet")
	QueueListErrorPath      = schedulingErrors.Child("queues")
)

// QueuePath addresses the i-th queue.
func QueuePath(i int) docpath.Path {
	return QueuesPath.Child(i)
}

// QueueErrorPath addresses the errors of the i-th queue.
func QueueErrorPath(i int) docpath.Path {
	return queueErrors.Child(i)
}

// Step names recorded under wizard.validated.
const (
	StepCluster  = "cluster"
	StepHeadNode = "headNode"
	StepQueues   = "queues"
)

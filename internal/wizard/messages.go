package wizard

// Validation messages written into the errors subtree.
const (
	MsgRegionRequired    = "You must select a region."
	MsgVpcRequired       = "You must select a VPC."
	MsgCustomAmiRequired = "You must select an AMI ID if you enable custom AMI."

	MsgClusterNameRequired = "You must enter a cluster name."
	MsgClusterNameFormat   = "The cluster name must start with a letter and contain only letters, numbers and hyphens."
	MsgClusterNameTooLong  = "The cluster name can have a maximum of 60 characters."
	MsgClusterNameExists   = "A cluster with this name already exists."

	MsgDomainNameRequired         = "You must enter the directory domain name."
	MsgDomainAddrRequired         = "You must enter the directory domain address."
	MsgDirectorySecretRequired    = "You must enter the ARN of the directory password secret."
	MsgDomainReadOnlyUserRequired = "You must enter the directory read-only user."

	MsgDatabaseUriRequired      = "You must enter the database URI."
	MsgDatabaseUserRequired     = "You must enter the database user name."
	MsgDatabaseSecretRequired   = "You must enter the ARN of the database password secret."
	MsgDatabaseSecretInvalidArn = "The database password must be a Secrets Manager secret ARN."

	MsgHeadNodeTypeRequired   = "You must select a head node instance type."
	MsgHeadNodeSubnetRequired = "You must select a head node subnet."

	MsgQueueListEmpty           = "You must configure at least one queue."
	MsgQueueNameRequired        = "You must enter a queue name."
	MsgQueueNameFormat          = "The queue name must start with a lowercase letter and contain only lowercase letters, numbers and hyphens."
	MsgQueueNameTooLong         = "The queue name can have a maximum of 25 characters."
	MsgQueueNameDuplicate       = "Queue names must be unique."
	MsgQueueSubnetRequired      = "You must select a subnet for the queue."
	MsgComputeResourcesRequired = "You must configure at least one compute resource."
)

// Package queues holds the compute-resource model of a Slurm queue and the
// list editor that mutates a queue's compute resources inside a store.
//
// Two shapes of compute resource exist: one instance type per resource
// (Single) or a list of instance types per resource (Multi). The shape is a
// Variant chosen once when a wizard session starts; editors and validators
// receive it instead of checking a feature flag.
package queues

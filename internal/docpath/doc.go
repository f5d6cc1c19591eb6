// internal/docpath/doc.go

/*
Package docpath provides the addressing scheme used by the wizard store: an
immutable, ordered sequence of segments where each segment is either a map
key or a list index.

The canonical string form joins keys with dots and renders indices in
brackets, e.g. `wizard.config.Scheduling.SlurmQueues[0].ComputeResources[1].Name`.
Two paths are equal when their segment sequences are equal elementwise.
*/
package docpath

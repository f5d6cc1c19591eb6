// Package wizard owns one cluster-configuration wizard session.
//
// A Session wraps a path-addressed store laid out as:
//
//	wizard.config      the cluster configuration being built
//	wizard.errors      validation messages, one string leaf per problem
//	wizard.*           page, load source, cluster name and mode switches
//	aws.*              resources of the selected region
//	clusters.names     existing cluster names
//
// Mutations run synchronously in caller order. Validators re-check their
// step from a clean error state every time they run and report problems
// only through wizard.errors; Submit refuses to hand the configuration on
// while any message is present.
package wizard

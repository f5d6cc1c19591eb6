// Package store provides the path-addressed, in-memory tree that holds a
// wizard session's draft configuration and its parallel errors document.
//
// # Tree shape
//
// Nodes are map[string]any (addressed by key segments) and []any (addressed
// by index segments). Leaves are scalars: string, bool, int, float64 or nil.
// Values handed to Set are normalised into that shape, so typed slices and
// maps are accepted and stored as copies.
//
// # Clear policy
//
// Clear removes a node and its subtree. Containers left empty by a Clear stay
// in place; they are not pruned. Clearing a list element removes it and
// shifts the following elements down.
//
// # Subscriptions
//
// Subscribe registers interest in a path. After every successful Set or
// Clear the store calls, synchronously and in registration order, each
// listener whose path is a prefix of, equal to, or an extension of the
// mutated path. Listeners run outside the store lock and may read or write
// the store.
//
// # Errors
//
// Treating a scalar as a container, addressing a map with an index or a list
// with a key returns an error wrapping ErrMalformedPath. These are contract
// violations by the caller; the store never coerces.
package store

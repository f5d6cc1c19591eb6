// Package pcapi is a thin client for the cluster management REST API
// (/v3/clusters). It lists and describes clusters, fetches their
// configuration and submits wizard output as create or update requests.
package pcapi

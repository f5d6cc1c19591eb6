// Package testutil holds helpers shared by the package tests: a concurrency
// safe log buffer and a context wired to a capturing logger.
package testutil

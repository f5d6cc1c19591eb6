// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the wizard run that turns flags, a draft
// and region data into a validated cluster configuration, decoupled from
// any specific entrypoint like a CLI.
package app

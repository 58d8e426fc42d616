// Package app wires application dependencies for the CLI.
//
// It loads Config from the home directory's config.yaml and the environment,
// builds the secret store, credential stores, signing transport, relay client
// and account services, and exposes them via the Wire struct for commands to
// use. App.Start runs the one-time legacy migration and installs the active
// account's key.
package app

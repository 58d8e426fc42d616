// Package commands defines the sorawallet CLI and wires dependencies for subcommands.
//
// Commands
//
//   - create       Create an account from a new recovery phrase (alias: init)
//   - recover      Restore an account from an existing recovery phrase
//   - accounts     List local accounts
//   - switch       Make another account active
//   - delete       Remove an account and its credentials
//   - export       Print an account's recovery phrase
//   - did          Print the active DID and key reference
//   - ddo          Print or publish the active DID document
//   - disclose     Saltify a JSON document into values and private salts
//   - resaltify    Rebuild salted values from a document and its salts
//   - migrate      Show or run the legacy layout migration
//   - call         Send an authenticated HTTP request
//
// # Implementation
//
// The root command loads Config and builds the dependency graph (secret
// store, credential stores, signing transport, relay client, services) before
// any wallet subcommand runs. Unless a command opts out, startup also runs the
// legacy migration and installs the active account's key, so every request
// made through the shared HTTP client is signed.
package commands

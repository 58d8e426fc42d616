// Package relay provides an HTTP implementation of the domain.RelayClient
// interface used by sorawallet.
//
// The relay is the wallet backend. It stores DID documents and answers
// authenticated calls. Authentication is not handled here: the http.Client
// given to New carries the signing transport from package auth, so every
// request made while an account is active is signed.
//
// Supported operations include:
//   - Registering the active account's DDO.
//   - Fetching the DDO of any DID.
//   - Pinging the backend to learn which DID it authenticated us as.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError values carrying the
// HTTP method, path and status text to aid diagnostics.
package relay

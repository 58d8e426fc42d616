// Package main runs the in-memory wallet backend used by sorawallet during
// development and tests. It verifies signed requests and stores DID
// documents.
//
// HTTP API
//
//	POST /ddo
//	    Register the caller's DDO. The request must be signed by the key the
//	    document lists; a first registration is verified against the document
//	    it carries.
//
//	GET /ddo/{did}
//	    Return the registered DDO of {did}.
//
//	GET /ping
//	    Return {"did": "<caller>"} for a signed call, or an empty DID for an
//	    anonymous one. A request with bad authentication headers gets 401.
//
//	GET /metrics
//	    Prometheus metrics, including sorawallet_auth_verifications_total.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Timestamps further than --max-skew from the server clock are rejected.
//     There is no replay cache; a captured request can be replayed within the
//     skew window.
//   - An access log records method, path, remote, status, bytes, duration and
//     the claimed DID of each request at debug level.
//   - The default listen address is :8080.
package main

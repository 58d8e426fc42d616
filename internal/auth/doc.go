// Package auth signs outbound HTTP requests with the active account key and
// verifies such requests on the server side.
//
// A request is authenticated by four headers carrying the owner DID, the key
// reference, a millisecond timestamp and a base64 signature over the
// canonical pre-image
//
//	method + uri + body + timestamp + owner + keyRef
//
// concatenated without separators. With no key installed in the KeyCell the
// Transport forwards requests untouched.
package auth

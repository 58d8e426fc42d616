package types

// AuthenticatedRequest is the signed view of one outbound call. It is never
// persisted.
type AuthenticatedRequest struct {
	Method    string `json:"method"`
	URI       string `json:"uri"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
	Owner     DID    `json:"owner"`
	KeyRef    string `json:"key_ref"`
	Signature []byte `json:"signature"`
}

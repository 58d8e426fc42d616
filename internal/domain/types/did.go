package types

// DDO is an immutable DID document.
type DDO struct {
	ID             DID                 `json:"id"`
	Authentication []DDOAuthentication `json:"authentication"`
	Created        string              `json:"created"`
	PublicKey      []DDOPublicKey      `json:"publicKey"`
}

// DDOAuthentication points at the public key entry used for authentication.
type DDOAuthentication struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// DDOPublicKey binds a hex encoded public key to a key reference.
type DDOPublicKey struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Owner        DID    `json:"owner"`
	PublicKeyHex string `json:"publicKeyHex"`
}

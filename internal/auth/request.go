package auth

import (
	"net/http"
	"strconv"
	"time"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/protocol/did"
)

const opSignRequest = "auth.sign_request"

// SignRequest builds and signs the authenticated view of one call made at
// the given instant. The owner and key reference derive from keys.PublicKey.
func SignRequest(signer domain.Signer, keys domain.KeyPair, method, uri, body string, at time.Time) (domain.AuthenticatedRequest, error) {
	owner, err := did.DeriveDID(keys.PublicKey)
	if err != nil {
		return domain.AuthenticatedRequest{}, domain.E(domain.KindSigningFailure, opSignRequest, err)
	}
	r := domain.AuthenticatedRequest{
		Method:    method,
		URI:       uri,
		Body:      body,
		Timestamp: strconv.FormatInt(at.UnixMilli(), 10),
		Owner:     owner,
		KeyRef:    did.KeyRef(owner),
	}
	sig, err := signer.Sign(keys, []byte(Preimage(r)))
	if err != nil {
		if domain.KindOf(err) == domain.KindSigningFailure {
			return domain.AuthenticatedRequest{}, err
		}
		return domain.AuthenticatedRequest{}, domain.E(domain.KindSigningFailure, opSignRequest, err)
	}
	r.Signature = sig
	return r, nil
}

// Preimage returns the canonical signing string of r.
func Preimage(r domain.AuthenticatedRequest) string {
	return canonical(r.Method, r.URI, r.Body, r.Timestamp, r.Owner.String(), r.KeyRef)
}

// SetHeaders writes the authentication headers of r to h.
func SetHeaders(h http.Header, r domain.AuthenticatedRequest) {
	h.Set(HeaderID, r.Owner.String())
	h.Set(HeaderPublicKey, r.KeyRef)
	h.Set(HeaderTimestamp, r.Timestamp)
	h.Set(HeaderSignature, crypto.B64(r.Signature))
}

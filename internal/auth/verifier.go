package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/protocol/did"
)

// DefaultMaxSkew bounds the distance between the signed timestamp and the
// verifier's clock.
const DefaultMaxSkew = 5 * time.Minute

var (
	ErrUnauthenticated = errors.New("request carries no authentication headers")
	ErrMalformedAuth   = errors.New("malformed authentication headers")
	ErrStaleTimestamp  = errors.New("timestamp outside allowed skew")
	ErrBadSignature    = errors.New("signature does not verify")
)

// DDOResolver returns the registered document of a DID.
type DDOResolver interface {
	ResolveDDO(ctx context.Context, owner domain.DID) (domain.DDO, error)
}

// Verifier checks signed requests. Replay protection beyond the skew window
// is not provided.
type Verifier struct {
	Resolver DDOResolver
	Signer   domain.Signer // defaults to crypto.SHA3Ed25519Signer
	MaxSkew  time.Duration // defaults to DefaultMaxSkew
	Now      func() time.Time
	Metrics  *Metrics
	// URI rebuilds the request URI the client signed. The default is
	// scheme://host followed by the raw request URI.
	URI func(*http.Request) string
}

// Verify returns the authenticated owner of r. The body of r is restored so
// handlers can read it again.
func (v *Verifier) Verify(r *http.Request) (domain.DID, error) {
	owner, err := v.verify(r)
	v.Metrics.ObserveVerification(err)
	if err != nil {
		return "", err
	}
	return owner, nil
}

func (v *Verifier) verify(r *http.Request) (domain.DID, error) {
	id := r.Header.Get(HeaderID)
	ref := r.Header.Get(HeaderPublicKey)
	tsRaw := r.Header.Get(HeaderTimestamp)
	sigRaw := r.Header.Get(HeaderSignature)
	if id == "" && ref == "" && tsRaw == "" && sigRaw == "" {
		return "", ErrUnauthenticated
	}
	if id == "" || ref == "" || tsRaw == "" || sigRaw == "" {
		return "", errors.Wrap(ErrMalformedAuth, "missing header")
	}

	owner := domain.DID(id)
	if ref != did.KeyRef(owner) {
		return "", errors.Wrapf(ErrMalformedAuth, "key reference %q does not belong to %s", ref, owner)
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return "", errors.Wrap(ErrMalformedAuth, "timestamp")
	}
	if skew := v.now().Sub(time.UnixMilli(ts)); skew > v.maxSkew() || skew < -v.maxSkew() {
		return "", errors.Wrapf(ErrStaleTimestamp, "skew %s", skew)
	}
	sig, err := base64.StdEncoding.DecodeString(sigRaw)
	if err != nil {
		return "", errors.Wrap(ErrMalformedAuth, "signature encoding")
	}

	if v.Resolver == nil {
		return "", errors.New("verifier has no ddo resolver")
	}
	ddo, err := v.Resolver.ResolveDDO(r.Context(), owner)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", owner)
	}
	pub, err := did.PublicKey(ddo, ref)
	if err != nil {
		return "", err
	}
	if derived, err := did.DeriveDID(pub); err != nil || derived != owner {
		return "", errors.Wrapf(ErrMalformedAuth, "key does not derive %s", owner)
	}

	body, err := readBody(r)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	if body != nil {
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	msg := Preimage(domain.AuthenticatedRequest{
		Method:    r.Method,
		URI:       v.uri(r),
		Body:      string(body),
		Timestamp: tsRaw,
		Owner:     owner,
		KeyRef:    ref,
	})
	if !v.signer().Verify(pub, []byte(msg), sig) {
		return "", ErrBadSignature
	}
	return owner, nil
}

// RequestURI rebuilds the absolute URI of an inbound request.
func RequestURI(r *http.Request) string {
	if r.URL.IsAbs() {
		return SentURI(r.URL)
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.RequestURI
}

func (v *Verifier) uri(r *http.Request) string {
	if v.URI != nil {
		return v.URI(r)
	}
	return RequestURI(r)
}

func (v *Verifier) signer() domain.Signer {
	if v.Signer != nil {
		return v.Signer
	}
	return crypto.SHA3Ed25519Signer{}
}

func (v *Verifier) maxSkew() time.Duration {
	if v.MaxSkew > 0 {
		return v.MaxSkew
	}
	return DefaultMaxSkew
}

func (v *Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Registry is an in-memory DDOResolver. Documents are validated on insert.
type Registry struct {
	mu   sync.RWMutex
	ddos map[domain.DID]domain.DDO
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ddos: make(map[domain.DID]domain.DDO)}
}

// ErrUnknownDID is returned for a DID with no registered document.
var ErrUnknownDID = errors.New("unknown did")

// Register stores ddo after validating it. Documents are immutable; a second
// registration must be identical.
func (g *Registry) Register(ddo domain.DDO) error {
	if err := did.Validate(ddo); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.ddos[ddo.ID]; ok && !sameDDO(prev, ddo) {
		return errors.Wrapf(did.ErrInvalidDDO, "%s already registered with a different document", ddo.ID)
	}
	g.ddos[ddo.ID] = ddo
	return nil
}

// ResolveDDO implements DDOResolver.
func (g *Registry) ResolveDDO(_ context.Context, owner domain.DID) (domain.DDO, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ddo, ok := g.ddos[owner]
	if !ok {
		return domain.DDO{}, errors.Wrapf(ErrUnknownDID, "%s", owner)
	}
	return ddo, nil
}

func sameDDO(a, b domain.DDO) bool {
	if a.ID != b.ID || a.Created != b.Created ||
		len(a.PublicKey) != len(b.PublicKey) || len(a.Authentication) != len(b.Authentication) {
		return false
	}
	for i := range a.PublicKey {
		if a.PublicKey[i] != b.PublicKey[i] {
			return false
		}
	}
	for i := range a.Authentication {
		if a.Authentication[i] != b.Authentication[i] {
			return false
		}
	}
	return true
}

var _ DDOResolver = (*Registry)(nil)

package auth_test

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sorawallet/internal/auth"
	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/protocol/did"
)

var fixedNow = time.UnixMilli(1_700_000_000_123)

func TestCanonicalString_Fixture(t *testing.T) {
	got := auth.CanonicalString("GET", "https://x/y", "", 1000, "did:sora:abc", "did:sora:abc#keys-1")
	assert.Equal(t, "GEThttps://x/y1000did:sora:abcdid:sora:abc#keys-1", got)

	signed := auth.Preimage(domain.AuthenticatedRequest{
		Method:    "GET",
		URI:       "https://x/y",
		Timestamp: "1000",
		Owner:     "did:sora:abc",
		KeyRef:    "did:sora:abc#keys-1",
	})
	assert.Equal(t, got, signed)
}

type harness struct {
	srv      *httptest.Server
	client   *http.Client
	cell     *auth.KeyCell
	registry *auth.Registry
	hits     atomic.Int32
	lastHdr  atomic.Pointer[http.Header]
}

// newHarness starts a server that verifies every request and echoes the
// authenticated DID followed by the body it read.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{cell: auth.NewKeyCell(), registry: auth.NewRegistry()}
	verifier := &auth.Verifier{Resolver: h.registry, Now: func() time.Time { return fixedNow }}

	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.hits.Add(1)
		hdr := r.Header.Clone()
		h.lastHdr.Store(&hdr)

		owner, err := verifier.Verify(r)
		if errors.Is(err, auth.ErrUnauthenticated) {
			owner = "anonymous"
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_, _ = io.WriteString(w, owner.String()+"|"+string(body))
	}))
	t.Cleanup(h.srv.Close)

	h.client = &http.Client{Transport: &auth.Transport{
		Base: http.DefaultTransport,
		Keys: h.cell,
		Now:  func() time.Time { return fixedNow },
	}}
	return h
}

func (h *harness) installNewKey(t *testing.T) domain.DID {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	owner, err := did.DeriveDID(kp.PublicKey)
	require.NoError(t, err)
	ddo, err := did.BuildDDO(owner, kp.PublicKey, fixedNow)
	require.NoError(t, err)
	require.NoError(t, h.registry.Register(ddo))
	h.cell.Install(kp)
	return owner
}

func (h *harness) do(t *testing.T, method, body string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.srv.URL+"/ping?x=1", rd)
	require.NoError(t, err)
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(out)
}

func TestTransport_BareHostURLVerifies(t *testing.T) {
	h := newHarness(t)
	owner := h.installNewKey(t)

	for _, target := range []string{h.srv.URL, h.srv.URL + "/", h.srv.URL + "?x=1"} {
		req, err := http.NewRequest(http.MethodGet, target, nil)
		require.NoError(t, err)
		path := req.URL.Path
		resp, err := h.client.Do(req)
		require.NoError(t, err)
		out, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, "%s: %s", target, out)
		assert.Equal(t, owner.String()+"|", string(out))
		assert.Equal(t, path, req.URL.Path)
	}
}

func TestSentURI(t *testing.T) {
	for raw, want := range map[string]string{
		"http://h":       "http://h/",
		"http://h?a=b":   "http://h/?a=b",
		"http://h/x?a=b": "http://h/x?a=b",
		"https://h/":     "https://h/",
	} {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, auth.SentURI(u), raw)
	}
}

func TestTransport_NoKeyAddsNoHeaders(t *testing.T) {
	h := newHarness(t)

	code, out := h.do(t, http.MethodGet, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "anonymous|", out)

	hdr := *h.lastHdr.Load()
	for _, name := range []string{auth.HeaderID, auth.HeaderPublicKey, auth.HeaderTimestamp, auth.HeaderSignature} {
		assert.Empty(t, hdr.Get(name), name)
	}
	assert.NotEqual(t, auth.DefaultUserAgent, hdr.Get("User-Agent"))
}

func TestTransport_SignsAndServerVerifies(t *testing.T) {
	h := newHarness(t)
	owner := h.installNewKey(t)

	code, out := h.do(t, http.MethodPost, `{"amount":"1"}`)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, owner.String()+`|{"amount":"1"}`, out)

	hdr := *h.lastHdr.Load()
	assert.Equal(t, owner.String(), hdr.Get(auth.HeaderID))
	assert.Equal(t, owner.String()+"#keys-1", hdr.Get(auth.HeaderPublicKey))
	assert.Equal(t, "1700000000123", hdr.Get(auth.HeaderTimestamp))
	assert.Equal(t, auth.DefaultUserAgent, hdr.Get("User-Agent"))
	_, err := base64.StdEncoding.DecodeString(hdr.Get(auth.HeaderSignature))
	require.NoError(t, err)
}

func TestTransport_DeterministicSignature(t *testing.T) {
	h := newHarness(t)
	h.installNewKey(t)

	h.do(t, http.MethodGet, "")
	first := h.lastHdr.Load().Get(auth.HeaderSignature)
	h.do(t, http.MethodGet, "")
	second := h.lastHdr.Load().Get(auth.HeaderSignature)
	assert.Equal(t, first, second)
}

func TestTransport_ClearStopsSigning(t *testing.T) {
	h := newHarness(t)
	h.installNewKey(t)
	h.cell.Clear()

	_, out := h.do(t, http.MethodGet, "")
	assert.Equal(t, "anonymous|", out)
}

func TestTransport_UnreadableBodyBlocksRequest(t *testing.T) {
	h := newHarness(t)
	h.installNewKey(t)

	req, err := http.NewRequest(http.MethodPost, h.srv.URL, iotest.ErrReader(errors.New("disk gone")))
	require.NoError(t, err)
	_, err = h.client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSigningFailure)
	assert.Zero(t, h.hits.Load())
}

func TestTransport_BadKeyBlocksRequest(t *testing.T) {
	h := newHarness(t)
	a, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	b, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	h.cell.Install(domain.KeyPair{PrivateKey: a.PrivateKey, PublicKey: b.PublicKey})

	req, err := http.NewRequest(http.MethodGet, h.srv.URL, nil)
	require.NoError(t, err)
	_, err = h.client.Do(req)
	assert.ErrorIs(t, err, domain.ErrSigningFailure)
	assert.Zero(t, h.hits.Load())
}

func TestKeyCell_InstallCopiesKeys(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	orig := kp.Clone()

	cell := auth.NewKeyCell()
	cell.Install(kp)
	kp.PrivateKey[0] ^= 0xff

	require.True(t, cell.Load().Equal(orig))
}

func signedRequest(t *testing.T, kp domain.KeyPair, method, uri, body string, ts time.Time) *http.Request {
	t.Helper()
	owner, err := did.DeriveDID(kp.PublicKey)
	require.NoError(t, err)
	msg := auth.CanonicalString(method, uri, body, ts.UnixMilli(), owner.String(), did.KeyRef(owner))
	sig, err := crypto.SHA3Ed25519Signer{}.Sign(kp, []byte(msg))
	require.NoError(t, err)

	r := httptest.NewRequest(method, uri, bytes.NewBufferString(body))
	r.Header.Set(auth.HeaderID, owner.String())
	r.Header.Set(auth.HeaderPublicKey, did.KeyRef(owner))
	r.Header.Set(auth.HeaderTimestamp, strconv.FormatInt(ts.UnixMilli(), 10))
	r.Header.Set(auth.HeaderSignature, base64.StdEncoding.EncodeToString(sig))
	return r
}

func TestVerifier_Rejections(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	owner, err := did.DeriveDID(kp.PublicKey)
	require.NoError(t, err)
	ddo, err := did.BuildDDO(owner, kp.PublicKey, fixedNow)
	require.NoError(t, err)

	reg := auth.NewRegistry()
	require.NoError(t, reg.Register(ddo))
	v := &auth.Verifier{Resolver: reg, Now: func() time.Time { return fixedNow }}
	const uri = "http://example.com/ddo?q=1"

	got, err := v.Verify(signedRequest(t, kp, http.MethodPost, uri, "body", fixedNow))
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	r := signedRequest(t, kp, http.MethodPost, uri, "body", fixedNow)
	r.Body = io.NopCloser(strings.NewReader("tampered"))
	_, err = v.Verify(r)
	assert.ErrorIs(t, err, auth.ErrBadSignature)

	_, err = v.Verify(signedRequest(t, kp, http.MethodPost, uri, "body", fixedNow.Add(-time.Hour)))
	assert.ErrorIs(t, err, auth.ErrStaleTimestamp)

	r = signedRequest(t, kp, http.MethodPost, uri, "body", fixedNow)
	r.Header.Set(auth.HeaderPublicKey, owner.String()+"#keys-2")
	_, err = v.Verify(r)
	assert.ErrorIs(t, err, auth.ErrMalformedAuth)

	_, err = v.Verify(httptest.NewRequest(http.MethodGet, uri, nil))
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	other, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	_, err = v.Verify(signedRequest(t, other, http.MethodGet, uri, "", fixedNow))
	assert.ErrorIs(t, err, auth.ErrUnknownDID)
}

func TestRegistry_DocumentsAreImmutable(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	owner, err := did.DeriveDID(kp.PublicKey)
	require.NoError(t, err)
	ddo, err := did.BuildDDO(owner, kp.PublicKey, fixedNow)
	require.NoError(t, err)

	reg := auth.NewRegistry()
	require.NoError(t, reg.Register(ddo))
	require.NoError(t, reg.Register(ddo))

	later, err := did.BuildDDO(owner, kp.PublicKey, fixedNow.Add(time.Hour))
	require.NoError(t, err)
	assert.ErrorIs(t, reg.Register(later), did.ErrInvalidDDO)
}

func TestSignRequest_PreimageMatchesCanonicalString(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	r, err := auth.SignRequest(crypto.SHA3Ed25519Signer{}, kp, "PUT", "https://x/y", "{}", time.UnixMilli(1000))
	require.NoError(t, err)
	assert.Equal(t, "1000", r.Timestamp)
	assert.Equal(t,
		auth.CanonicalString("PUT", "https://x/y", "{}", 1000, r.Owner.String(), r.KeyRef),
		auth.Preimage(r))
	assert.True(t, crypto.SHA3Ed25519Signer{}.Verify(kp.PublicKey, []byte(auth.Preimage(r)), r.Signature))

	again, err := auth.SignRequest(crypto.SHA3Ed25519Signer{}, kp, "PUT", "https://x/y", "{}", time.UnixMilli(1000))
	require.NoError(t, err)
	assert.Equal(t, r.Signature, again.Signature)
}

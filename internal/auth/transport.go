package auth

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
)

// Transport is an http.RoundTripper that signs every request with the key in
// Keys. It keeps no per-request state and is safe for concurrent use.
type Transport struct {
	Base      http.RoundTripper // defaults to http.DefaultTransport
	Keys      *KeyCell
	Signer    domain.Signer    // defaults to crypto.SHA3Ed25519Signer
	UserAgent string           // defaults to DefaultUserAgent
	Now       func() time.Time // defaults to time.Now
	Metrics   *Metrics
	Log       *logrus.Logger
}

// RoundTrip forwards req unchanged when no key is installed. Otherwise it
// signs a clone of req and forwards the clone. A body that cannot be read or
// a failed signature aborts the request.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var keys *domain.KeyPair
	if t.Keys != nil {
		keys = t.Keys.Load()
	}
	if keys == nil {
		t.Metrics.request(OutcomeAnonymous)
		return t.base().RoundTrip(req)
	}

	signed, err := t.sign(req, *keys)
	if err != nil {
		t.Metrics.request(OutcomeFailed)
		t.log().WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.Redacted(),
		}).WithError(err).Warn("request not sent: signing failed")
		return nil, err
	}
	t.Metrics.request(OutcomeSigned)
	return t.base().RoundTrip(signed)
}

func (t *Transport) sign(req *http.Request, keys domain.KeyPair) (*http.Request, error) {
	body, err := readBody(req)
	if err != nil {
		return nil, domain.E(domain.KindSigningFailure, opSignRequest, errors.Wrap(err, "read request body"))
	}
	signed, err := SignRequest(t.signer(), keys, req.Method, SentURI(req.URL), string(body), t.now())
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil }
		out.ContentLength = int64(len(body))
	}
	SetHeaders(out.Header, signed)
	out.Header.Set("User-Agent", t.userAgent())
	return out, nil
}

// SentURI returns u in the form it takes on the wire. An empty path goes
// out as "/", so it is signed as "/". u itself is left untouched.
func SentURI(u *url.URL) string {
	if u.Path != "" || u.Opaque != "" {
		return u.String()
	}
	c := *u
	c.Path = "/"
	c.RawPath = ""
	return c.String()
}

// readBody drains and closes the body of req. A nil result means no body.
func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) signer() domain.Signer {
	if t.Signer != nil {
		return t.Signer
	}
	return crypto.SHA3Ed25519Signer{}
}

func (t *Transport) userAgent() string {
	if t.UserAgent != "" {
		return t.UserAgent
	}
	return DefaultUserAgent
}

func (t *Transport) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Transport) log() *logrus.Logger {
	if t.Log != nil {
		return t.Log
	}
	return logrus.StandardLogger()
}

var _ http.RoundTripper = (*Transport)(nil)

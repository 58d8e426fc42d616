package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"sorawallet/internal/domain"
)

// Paths served by the backend.
const (
	PathDDO  = "/ddo"
	PathPing = "/ping"
)

// PingResponse is the body of a ping reply. DID is empty for anonymous calls.
type PingResponse struct {
	DID domain.DID `json:"did"`
}

// StatusError is a non-2xx reply.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay %s %s: %s", strings.ToLower(e.Method), e.Path, e.Status)
}

// HTTP is a RelayClient over JSON/HTTP.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for base. A nil client uses http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: client}
}

// RegisterDDO publishes ddo.
func (c *HTTP) RegisterDDO(ctx context.Context, ddo domain.DDO) error {
	return c.post(ctx, PathDDO, ddo, nil)
}

// FetchDDO returns the registered document of owner.
func (c *HTTP) FetchDDO(ctx context.Context, owner domain.DID) (domain.DDO, error) {
	var out domain.DDO
	if err := c.getJSON(ctx, PathDDO+"/"+url.PathEscape(owner.String()), &out); err != nil {
		return domain.DDO{}, err
	}
	return out, nil
}

// Ping returns the DID the backend authenticated the call as.
func (c *HTTP) Ping(ctx context.Context) (domain.DID, error) {
	var out PingResponse
	if err := c.getJSON(ctx, PathPing, &out); err != nil {
		return "", err
	}
	return out.DID, nil
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

func (c *HTTP) do(req *http.Request, path string, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: req.Method, Path: path, Code: resp.StatusCode, Status: resp.Status}
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(out), "decode %s", path)
}

var _ domain.RelayClient = (*HTTP)(nil)

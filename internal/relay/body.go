package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const maxBody = 1 << 20

// peekJSON decodes the body of r into v and leaves the body readable again.
func peekJSON(r *http.Request, v any) ([]byte, error) {
	if r.Body == nil {
		return nil, errors.New("empty body")
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	r.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	restoreBody(r, body)
	if err := json.Unmarshal(body, v); err != nil {
		return nil, errors.Wrap(err, "decode body")
	}
	return body, nil
}

func restoreBody(r *http.Request, body []byte) {
	r.Body = io.NopCloser(bytes.NewReader(body))
}

package auth

import (
	"strconv"
	"strings"
)

// Header names of a signed request.
const (
	HeaderID        = "SORA-AUTH-ID"
	HeaderPublicKey = "SORA-AUTH-PUBLIC-KEY"
	HeaderTimestamp = "SORA-AUTH-TIMESTAMP"
	HeaderSignature = "SORA-AUTH-SIGNATURE"
)

// DefaultUserAgent replaces the User-Agent of every signed request.
const DefaultUserAgent = "sorawallet/1"

// CanonicalString returns the signing pre-image. The parts are concatenated
// in order with no separators; verifiers rebuild it bit for bit.
func CanonicalString(method, uri, body string, timestampMillis int64, owner, keyRef string) string {
	return canonical(method, uri, body, strconv.FormatInt(timestampMillis, 10), owner, keyRef)
}

// canonical takes the timestamp as sent so verifiers reuse the header text.
func canonical(method, uri, body, ts, owner, keyRef string) string {
	var b strings.Builder
	b.Grow(len(method) + len(uri) + len(body) + len(ts) + len(owner) + len(keyRef))
	b.WriteString(method)
	b.WriteString(uri)
	b.WriteString(body)
	b.WriteString(ts)
	b.WriteString(owner)
	b.WriteString(keyRef)
	return b.String()
}

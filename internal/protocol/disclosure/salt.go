package disclosure

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"

	"sorawallet/internal/domain"
)

// SaltSize is the number of random bytes in one salt.
const SaltSize = 32

var (
	ErrSaltMismatch = errors.New("salts do not match document fields")
	ErrUnknownField = errors.New("unknown field")
)

// Saltify attaches a fresh random salt to every field of flat.
func Saltify(flat domain.FlatMap) (domain.SaltedMap, error) {
	return SaltifyWith(rand.Reader, flat)
}

// SaltifyWith is Saltify with an explicit entropy source.
func SaltifyWith(r io.Reader, flat domain.FlatMap) (domain.SaltedMap, error) {
	out := make(domain.SaltedMap, len(flat))
	buf := make([]byte, SaltSize)
	for field, value := range flat {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrap(err, "read salt")
		}
		out[field] = domain.SaltedField{Value: value, Salt: hex.EncodeToString(buf)}
	}
	return out, nil
}

// GetSalts returns only the salts of salted, keyed by field.
func GetSalts(salted domain.SaltedMap) domain.Salts {
	out := make(domain.Salts, len(salted))
	for field, sf := range salted {
		out[field] = sf.Salt
	}
	return out
}

// Resaltify pairs each field of flat with its previously extracted salt.
// The field sets of flat and salts must be identical.
func Resaltify(flat domain.FlatMap, salts domain.Salts) (domain.SaltedMap, error) {
	if len(flat) != len(salts) {
		return nil, errors.Wrapf(ErrSaltMismatch, "%d fields, %d salts", len(flat), len(salts))
	}
	out := make(domain.SaltedMap, len(flat))
	for field, value := range flat {
		salt, ok := salts[field]
		if !ok {
			return nil, errors.Wrapf(ErrSaltMismatch, "no salt for %q", field)
		}
		out[field] = domain.SaltedField{Value: value, Salt: salt}
	}
	return out, nil
}

// Desaltify strips salts and returns the plain values.
func Desaltify(salted domain.SaltedMap) domain.FlatMap {
	out := make(domain.FlatMap, len(salted))
	for field, sf := range salted {
		out[field] = sf.Value
	}
	return out
}

// Disclose returns the salted entries of the requested fields only.
func Disclose(salted domain.SaltedMap, fields ...string) (domain.SaltedMap, error) {
	out := make(domain.SaltedMap, len(fields))
	for _, f := range fields {
		sf, ok := salted[f]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "%q", f)
		}
		out[f] = sf
	}
	return out, nil
}

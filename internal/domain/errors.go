package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies failures of the credential core. An absent credential is
// not a failure and has no kind: stores return a nil value and a nil error.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindCorruptCredential means stored material exists but cannot be decoded.
	KindCorruptCredential
	// KindSigningFailure means a keypair is present but signing failed.
	KindSigningFailure
	// KindMigrationFailure means the legacy layout could not be moved in full.
	KindMigrationFailure
)

var (
	ErrCorruptCredential = errors.New("corrupt credential")
	ErrSigningFailure    = errors.New("signing failure")
	ErrMigrationFailure  = errors.New("migration failure")
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCorruptCredential:
		return "CorruptCredential"
	case KindSigningFailure:
		return "SigningFailure"
	case KindMigrationFailure:
		return "MigrationFailure"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindCorruptCredential:
		return ErrCorruptCredential
	case KindSigningFailure:
		return ErrSigningFailure
	case KindMigrationFailure:
		return ErrMigrationFailure
	default:
		return nil
	}
}

// Error is a typed failure of one operation. errors.Is matches it against
// the sentinel of its kind as well as against the wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// E builds a typed error for op. A nil cause is allowed.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

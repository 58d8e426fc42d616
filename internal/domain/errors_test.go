package domain_test

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"sorawallet/internal/domain"
)

func TestError_MatchesKindSentinelAndCause(t *testing.T) {
	err := errors.Wrap(domain.E(domain.KindCorruptCredential, "store.get", io.ErrUnexpectedEOF), "load keys")

	require.ErrorIs(t, err, domain.ErrCorruptCredential)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.NotErrorIs(t, err, domain.ErrSigningFailure)
	require.Equal(t, domain.KindCorruptCredential, domain.KindOf(err))
	require.Contains(t, err.Error(), "store.get: CorruptCredential")
}

func TestError_NestedKinds(t *testing.T) {
	inner := domain.E(domain.KindCorruptCredential, "store.read_legacy", nil)
	outer := domain.E(domain.KindMigrationFailure, "migration.migrate", inner)

	require.ErrorIs(t, outer, domain.ErrMigrationFailure)
	require.ErrorIs(t, outer, domain.ErrCorruptCredential)
	require.Equal(t, domain.KindMigrationFailure, domain.KindOf(outer))
	require.Equal(t, "store.read_legacy: CorruptCredential", inner.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	require.Equal(t, domain.KindUnknown, domain.KindOf(errors.New("boom")))
	require.Equal(t, domain.KindUnknown, domain.KindOf(nil))
}

func TestMigrationState_String(t *testing.T) {
	require.Equal(t, "NOT_NEEDED", domain.MigrationNotNeeded.String())
	require.Equal(t, "NEEDS_MIGRATION", domain.MigrationNeeded.String())
	require.Equal(t, "MIGRATED", domain.MigrationDone.String())
}

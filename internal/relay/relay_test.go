package relay_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"sorawallet/internal/auth"
	"sorawallet/internal/crypto"
	"sorawallet/internal/domain"
	"sorawallet/internal/protocol/did"
	"sorawallet/internal/relay"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T) (*relay.HTTP, *auth.KeyCell) {
	t.Helper()
	srv := httptest.NewServer(relay.NewServer(auth.Verifier{}, quietLogger()).Handler())
	t.Cleanup(srv.Close)

	cell := auth.NewKeyCell()
	client := &http.Client{Transport: &auth.Transport{Keys: cell, Log: quietLogger()}}
	return relay.NewHTTP(srv.URL+"/", client), cell
}

func newAccount(t *testing.T) (domain.KeyPair, domain.DDO) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	owner, err := did.DeriveDID(kp.PublicKey)
	require.NoError(t, err)
	ddo, err := did.BuildDDO(owner, kp.PublicKey, time.Now())
	require.NoError(t, err)
	return kp, ddo
}

func TestRelay_RegisterFetchPing(t *testing.T) {
	ctx := context.Background()
	rc, cell := setup(t)

	who, err := rc.Ping(ctx)
	require.NoError(t, err)
	require.Empty(t, who)

	kp, ddo := newAccount(t)
	cell.Install(kp)
	require.NoError(t, rc.RegisterDDO(ctx, ddo))

	who, err = rc.Ping(ctx)
	require.NoError(t, err)
	require.Equal(t, ddo.ID, who)

	got, err := rc.FetchDDO(ctx, ddo.ID)
	require.NoError(t, err)
	require.Equal(t, ddo, got)
}

func TestRelay_RegisterRequiresSignature(t *testing.T) {
	rc, _ := setup(t)
	_, ddo := newAccount(t)

	err := rc.RegisterDDO(context.Background(), ddo)
	var se *relay.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestRelay_CannotRegisterForeignDDO(t *testing.T) {
	ctx := context.Background()
	rc, cell := setup(t)
	kp, mine := newAccount(t)
	_, theirs := newAccount(t)

	cell.Install(kp)
	require.NoError(t, rc.RegisterDDO(ctx, mine))

	err := rc.RegisterDDO(ctx, theirs)
	var se *relay.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusForbidden, se.Code)
}

func TestRelay_FetchUnknown(t *testing.T) {
	rc, _ := setup(t)
	_, err := rc.FetchDDO(context.Background(), "did:sora:00000000000000000000")
	var se *relay.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.Code)
}

func verifications(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "sorawallet_auth_verifications_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRelay_FirstRegistrationCountsOneVerification(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(relay.NewServer(auth.Verifier{Metrics: auth.NewMetrics(reg)}, quietLogger()).Handler())
	t.Cleanup(srv.Close)
	cell := auth.NewKeyCell()
	rc := relay.NewHTTP(srv.URL, &http.Client{Transport: &auth.Transport{Keys: cell, Log: quietLogger()}})

	kp, ddo := newAccount(t)
	cell.Install(kp)
	require.NoError(t, rc.RegisterDDO(ctx, ddo))
	require.Equal(t, 1.0, verifications(t, reg, auth.OutcomeVerified))
	require.Equal(t, 0.0, verifications(t, reg, auth.OutcomeRejected))

	_, err := rc.Ping(ctx)
	require.NoError(t, err)
	require.Equal(t, 2.0, verifications(t, reg, auth.OutcomeVerified))
	require.Equal(t, 0.0, verifications(t, reg, auth.OutcomeRejected))
}

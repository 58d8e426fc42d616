package interfaces

import (
	"context"

	domaintypes "sorawallet/internal/domain/types"
)

// RelayClient talks to the wallet backend. Every call is authenticated by
// the HTTP transport when an account is active.
type RelayClient interface {
	RegisterDDO(ctx context.Context, ddo domaintypes.DDO) error
	FetchDDO(ctx context.Context, did domaintypes.DID) (domaintypes.DDO, error)
	Ping(ctx context.Context) (domaintypes.DID, error)
}

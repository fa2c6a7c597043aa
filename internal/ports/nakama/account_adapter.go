package nakama

import (
	"context"
	"fmt"

	"ludocash/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
)

// AccountAPI is the slice of Nakama's module API the account adapter uses.
type AccountAPI interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
}

// NakamaAccountAdapter implements ports.AccountDirectory using Nakama's
// account API.
type NakamaAccountAdapter struct {
	nk AccountAPI
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk AccountAPI) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// Lookup returns display data for the user.
func (a *NakamaAccountAdapter) Lookup(ctx context.Context, userID string) (ports.Profile, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return ports.Profile{}, fmt.Errorf("account lookup %s: %w", userID, err)
	}
	user := account.GetUser()
	return ports.Profile{
		DisplayName: user.GetDisplayName(),
		AvatarURL:   user.GetAvatarUrl(),
	}, nil
}

var _ ports.AccountDirectory = (*NakamaAccountAdapter)(nil)

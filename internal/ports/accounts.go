package ports

import "context"

// Profile is the display identity of a user.
type Profile struct {
	DisplayName string
	AvatarURL   string
}

// AccountDirectory looks up user display data. Identity and profile storage
// live outside this module; only the lookup is needed here.
type AccountDirectory interface {
	// Lookup returns the profile for a user id.
	Lookup(ctx context.Context, userID string) (Profile, error)
}

package app

import "ludocash/internal/domain"

// Guard maps a verified caller identity to the actions it may perform.
// It is stateless; the caller identity itself is verified upstream.
type Guard struct{}

// ForfeitTarget resolves which uid a forfeit request applies to. An empty
// requested uid means the caller forfeits themselves; targeting anyone else
// is denied.
func (Guard) ForfeitTarget(callerUID, requestedUID string) (string, error) {
	if requestedUID == "" || requestedUID == callerUID {
		return callerUID, nil
	}
	return "", ErrForfeitNotAllowed
}

// EnsureCurrentTurn verifies the caller owns the current turn.
func (Guard) EnsureCurrentTurn(room *domain.Room, callerUID string) error {
	if room.CurrentPlayerID() != callerUID {
		return ErrNotYourTurn
	}
	return nil
}

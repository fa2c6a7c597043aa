package app

import (
	"context"
	"errors"
	"fmt"

	"ludocash/internal/domain"
)

// WinnerPolicy selects the winning uid for a finished room with at least
// one active player. The board ruleset is a placeholder, so the shipped
// policy is too; swap it once real board outcomes exist.
type WinnerPolicy func(r *domain.Room) string

// FirstActiveWinner pays the first non-forfeited player in turn order.
// This mirrors the placeholder rule in the original game flow and is not a
// real Ludo win condition.
func FirstActiveWinner(r *domain.Room) string {
	active := r.ActivePlayerIDs()
	if len(active) == 0 {
		return ""
	}
	return active[0]
}

// settle applies the wallet effects of a finished room. With no active
// players left every player gets their bet back; otherwise the winner is
// credited the pot minus the platform fee. All credits are ledger-guarded
// by room id, so settling the same room twice is a no-op.
func (s *GameService) settle(ctx context.Context, room *domain.Room) error {
	if room.Status != domain.RoomFinished {
		return ErrGameNotActive
	}
	link := domain.EntryLink{RoomID: room.RoomID}
	code := roomCode(room.RoomID)

	active := room.ActivePlayerIDs()
	if len(active) == 0 {
		var errs []error
		desc := fmt.Sprintf("Ludo game refund - Room %s", code)
		for uid := range room.Players {
			if _, err := s.wallets.CreditOnce(ctx, uid, room.BetAmount, domain.EntryRefund, desc, link); err != nil {
				errs = append(errs, fmt.Errorf("refund %s: %w", uid, err))
			}
		}
		return errors.Join(errs...)
	}

	winner := s.winner(room)
	if winner == "" {
		return fmt.Errorf("settle room %s: winner policy returned no winner", room.RoomID)
	}
	fee := platformFee(room.PotAmount, s.cfg.PlatformFeePercent)
	netPot := room.PotAmount - fee

	desc := fmt.Sprintf("Ludo game win - Room %s", code)
	if _, err := s.wallets.CreditOnce(ctx, winner, netPot, domain.EntryWin, desc, link); err != nil {
		return fmt.Errorf("credit winner %s: %w", winner, err)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ludocash/internal/config"
	"ludocash/internal/domain"
	"ludocash/internal/ports"
	"ludocash/internal/store"
)

// GameService drives a room through its ONGOING lifecycle: starting the
// game, dice turns, skip/forfeit policy and settlement on finish. Every
// room mutation is a single CAS transaction; the wallet effects that follow
// a lifecycle transition are separate per-user transactions and are made
// idempotent so a crash between the two can be recovered by re-running
// Finalize.
type GameService struct {
	store   *store.Store
	wallets *WalletService
	guard   Guard
	rng     ports.RandomSource
	cfg     *config.GameConfig
	winner  WinnerPolicy
}

// NewGameService constructs a GameService. winner may be nil to use
// FirstActiveWinner.
func NewGameService(st *store.Store, wallets *WalletService, rng ports.RandomSource, cfg *config.GameConfig, winner WinnerPolicy) *GameService {
	if cfg == nil {
		cfg = config.Default()
	}
	if winner == nil {
		winner = FirstActiveWinner
	}
	return &GameService{store: st, wallets: wallets, rng: rng, cfg: cfg, winner: winner}
}

// StartResult reports a successful game start. BetErrors carries per-player
// bet collection failures that did not stop the start; they leave the
// recoverable inconsistency window described on Finalize.
type StartResult struct {
	Room          *domain.Room
	TurnOrder     []string
	CurrentPlayer string
	BetErrors     []error
}

// RollResult reports a committed dice roll.
type RollResult struct {
	DiceValue  int
	NextPlayer string
	Board      *domain.Board
}

// SkipResult reports a committed turn skip.
type SkipResult struct {
	SkipCount    int
	Forfeited    bool
	GameFinished bool
	// SettleErr is a settlement failure after the room already finished;
	// the room state is committed and Finalize can be re-run.
	SettleErr error
}

// ForfeitResult reports a committed forfeit.
type ForfeitResult struct {
	GameFinished bool
	SettleErr    error
}

// Start transitions a WAITING room to ONGOING in one transaction: bets are
// locked, the pot is fixed at bet x players, the turn order is drawn as an
// unbiased permutation from the secure random source, and the placeholder
// board is laid out. Bet debits run after the commit as separate wallet
// transactions.
func (s *GameService) Start(ctx context.Context, callerUID, roomID string) (*StartResult, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}

	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomWaiting {
			return r, ErrGameAlreadyStarted
		}
		if len(r.Players) < s.cfg.MinPlayers {
			return r, ErrTooFewPlayers
		}
		if !r.AllReady() {
			return r, ErrNotAllReady
		}

		uids := make([]string, 0, len(r.Players))
		for uid := range r.Players {
			uids = append(uids, uid)
		}
		sort.Strings(uids)
		shuffle(uids, s.rng)

		for _, p := range r.Players {
			p.WalletLockedAmount = r.BetAmount
		}
		r.TurnOrder = uids
		r.CurrentTurnIndex = 0
		r.PotAmount = r.BetAmount * int64(len(uids))
		r.Board = domain.NewBoard(uids)
		r.Status = domain.RoomOngoing
		r.StartedAt = time.Now().UnixMilli()
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	result := &StartResult{
		Room:          &room,
		TurnOrder:     room.TurnOrder,
		CurrentPlayer: room.CurrentPlayerID(),
	}
	desc := fmt.Sprintf("Ludo game bet - Room %s", roomCode(roomID))
	for _, uid := range room.TurnOrder {
		_, err := s.wallets.DebitOnce(ctx, uid, room.BetAmount, domain.EntryBet, desc, domain.EntryLink{RoomID: roomID})
		if err != nil {
			result.BetErrors = append(result.BetErrors, fmt.Errorf("collect bet from %s: %w", uid, err))
		}
	}
	return result, nil
}

// shuffle performs a Fisher-Yates shuffle with the provided source.
func shuffle(uids []string, rng ports.RandomSource) {
	for i := len(uids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		uids[i], uids[j] = uids[j], uids[i]
	}
}

// Roll draws a dice value for the current player, resets their skip count
// and advances the turn past forfeited players.
func (s *GameService) Roll(ctx context.Context, callerUID, roomID string) (*RollResult, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}

	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomOngoing {
			return r, ErrGameNotActive
		}
		if err := s.guard.EnsureCurrentTurn(&r, callerUID); err != nil {
			return r, err
		}
		p := r.Players[callerUID]
		if p.Forfeited {
			return r, ErrPlayerForfeited
		}

		value := s.rng.Intn(6) + 1
		p.SkipCount = 0
		r.DiceHistory = append(r.DiceHistory, domain.DiceRoll{
			PlayerID:  callerUID,
			Value:     value,
			Timestamp: time.Now().UnixMilli(),
			TurnIndex: r.CurrentTurnIndex,
		})

		// Board movement rules are pending; the roll is recorded and the
		// turn advances.
		r.CurrentTurnIndex = r.NextTurnIndex(r.CurrentTurnIndex)
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	last := room.DiceHistory[len(room.DiceHistory)-1]
	return &RollResult{
		DiceValue:  last.Value,
		NextPlayer: room.CurrentPlayerID(),
		Board:      room.Board,
	}, nil
}

// Skip charges a skipped turn against the current player. Three skips
// forfeit the player; when that leaves one active player the room finishes
// and settlement runs.
func (s *GameService) Skip(ctx context.Context, callerUID, roomID string) (*SkipResult, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}

	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomOngoing {
			return r, ErrGameNotActive
		}
		if err := s.guard.EnsureCurrentTurn(&r, callerUID); err != nil {
			return r, err
		}
		p := r.Players[callerUID]

		now := time.Now().UnixMilli()
		p.SkipCount++
		r.MovesHistory = append(r.MovesHistory, domain.Move{
			PlayerID:  callerUID,
			Action:    domain.MoveAutoSkip,
			SkipCount: p.SkipCount,
			Timestamp: now,
			TurnIndex: r.CurrentTurnIndex,
		})

		if p.SkipCount >= s.cfg.SkipLimit {
			p.Forfeited = true
			r.MovesHistory = append(r.MovesHistory, domain.Move{
				PlayerID:  callerUID,
				Action:    domain.MoveForfeit,
				Reason:    "auto-skip-limit",
				Timestamp: now,
			})
			if r.ActiveCount() <= 1 {
				r.Status = domain.RoomFinished
				r.EndedAt = now
			}
		}

		if r.Status == domain.RoomOngoing {
			r.CurrentTurnIndex = r.NextTurnIndex(r.CurrentTurnIndex)
		}
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	result := &SkipResult{
		SkipCount:    room.Players[callerUID].SkipCount,
		Forfeited:    room.Players[callerUID].Forfeited,
		GameFinished: room.Status == domain.RoomFinished,
	}
	if result.GameFinished {
		result.SettleErr = s.settle(ctx, &room)
	}
	return result, nil
}

// Forfeit permanently removes a player from active play. The guard only
// allows self-forfeit. When at most one active player remains the room
// finishes and settlement runs.
func (s *GameService) Forfeit(ctx context.Context, callerUID, roomID, targetUID string) (*ForfeitResult, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}
	uid, err := s.guard.ForfeitTarget(callerUID, targetUID)
	if err != nil {
		return nil, err
	}

	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomOngoing {
			return r, ErrGameNotActive
		}
		p, ok := r.Players[uid]
		if !ok {
			return r, ErrNotInRoom
		}
		if p.Forfeited {
			return r, ErrAlreadyForfeited
		}

		now := time.Now().UnixMilli()
		p.Forfeited = true
		r.MovesHistory = append(r.MovesHistory, domain.Move{
			PlayerID:  uid,
			Action:    domain.MoveForfeit,
			Reason:    "manual",
			Timestamp: now,
		})

		if r.ActiveCount() <= 1 {
			r.Status = domain.RoomFinished
			r.EndedAt = now
		} else if uid == r.CurrentPlayerID() {
			r.CurrentTurnIndex = r.NextTurnIndex(r.CurrentTurnIndex)
		}
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	result := &ForfeitResult{GameFinished: room.Status == domain.RoomFinished}
	if result.GameFinished {
		result.SettleErr = s.settle(ctx, &room)
	}
	return result, nil
}

// Finalize settles a room. It can be called on a FINISHED room at any time
// and is idempotent: credits are ledger-guarded per room, so re-running it
// after a crash between the finish commit and the payout produces no double
// pay. Calling it on an ONGOING room forces the finish first.
func (s *GameService) Finalize(ctx context.Context, roomID string) error {
	if roomID == "" {
		return ErrRoomIDRequired
	}
	room, err := store.Get[domain.Room](ctx, s.store, CollectionRooms, roomID)
	if err != nil {
		if isNotFound(err) {
			return ErrRoomNotFound
		}
		return err
	}

	switch room.Status {
	case domain.RoomWaiting:
		return ErrGameNotActive
	case domain.RoomOngoing:
		room, err = store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
			if r.Status == domain.RoomOngoing {
				r.Status = domain.RoomFinished
				r.EndedAt = time.Now().UnixMilli()
			}
			return r, nil
		})
		if err != nil {
			return err
		}
	}
	return s.settle(ctx, &room)
}

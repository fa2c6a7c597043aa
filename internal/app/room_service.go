package app

import (
	"context"
	"time"

	"ludocash/internal/config"
	"ludocash/internal/domain"
	"ludocash/internal/ports"
	"ludocash/internal/store"
)

// RoomService owns the pre-game room lifecycle: creation, joining, ready
// state and lobby listing. In-game transitions live on GameService.
type RoomService struct {
	store    *store.Store
	wallets  *WalletService
	accounts ports.AccountDirectory
	cfg      *config.GameConfig
}

// NewRoomService constructs a RoomService.
func NewRoomService(st *store.Store, wallets *WalletService, accounts ports.AccountDirectory, cfg *config.GameConfig) *RoomService {
	if cfg == nil {
		cfg = config.Default()
	}
	return &RoomService{store: st, wallets: wallets, accounts: accounts, cfg: cfg}
}

func (s *RoomService) newPlayer(ctx context.Context, uid string) *domain.Player {
	p := &domain.Player{UID: uid, DisplayName: "Anonymous"}
	profile, err := s.accounts.Lookup(ctx, uid)
	if err == nil {
		if profile.DisplayName != "" {
			p.DisplayName = profile.DisplayName
		}
		p.Avatar = profile.AvatarURL
	}
	return p
}

// Create validates the stake and capacity, checks the creator can cover the
// bet, and persists a fresh WAITING room with the creator seated.
func (s *RoomService) Create(ctx context.Context, callerUID string, betAmount int64, maxPlayers int) (*domain.Room, error) {
	if !s.cfg.IsAllowedBet(betAmount) {
		return nil, ErrInvalidBetAmount
	}
	if maxPlayers == 0 {
		maxPlayers = s.cfg.MaxPlayers
	}
	if maxPlayers < s.cfg.MinPlayers || maxPlayers > s.cfg.MaxPlayers {
		return nil, ErrInvalidMaxPlayers
	}

	balance, err := s.wallets.Balance(ctx, callerUID)
	if err != nil {
		return nil, err
	}
	if balance < betAmount {
		return nil, ErrInsufficientFunds
	}

	now := time.Now().UnixMilli()
	room := domain.Room{
		RoomID:     newRoomID(),
		BetAmount:  betAmount,
		MaxPlayers: maxPlayers,
		Status:     domain.RoomWaiting,
		Players:    map[string]*domain.Player{callerUID: s.newPlayer(ctx, callerUID)},
		CreatedAt:  now,
		MovesHistory: []domain.Move{
			{PlayerID: callerUID, Action: domain.MoveJoin, Timestamp: now},
		},
	}

	if err := store.Create(ctx, s.store, CollectionRooms, room.RoomID, room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Join seats the caller in a WAITING room that has capacity. The balance
// check is advisory; the bet is only collected when the game starts.
func (s *RoomService) Join(ctx context.Context, callerUID, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}

	balance, err := s.wallets.Balance(ctx, callerUID)
	if err != nil {
		return nil, err
	}

	player := s.newPlayer(ctx, callerUID)
	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomWaiting {
			return r, ErrRoomNotWaiting
		}
		if r.IsFull() {
			return r, ErrRoomFull
		}
		if _, ok := r.Players[callerUID]; ok {
			return r, ErrAlreadyInRoom
		}
		if balance < r.BetAmount {
			return r, ErrInsufficientFunds
		}
		r.Players[callerUID] = player
		r.MovesHistory = append(r.MovesHistory, domain.Move{
			PlayerID:  callerUID,
			Action:    domain.MoveJoin,
			Timestamp: time.Now().UnixMilli(),
		})
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Ready marks the caller as ready to start. Only meaningful while WAITING.
func (s *RoomService) Ready(ctx context.Context, callerUID, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}
	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomWaiting {
			return r, ErrRoomNotWaiting
		}
		p, ok := r.Players[callerUID]
		if !ok {
			return r, ErrNotInRoom
		}
		p.Ready = true
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Leave removes the caller from a WAITING room. The room is deleted when
// the last player leaves. Leaving an ONGOING game is a forfeit, not a leave.
func (s *RoomService) Leave(ctx context.Context, callerUID, roomID string) error {
	if roomID == "" {
		return ErrRoomIDRequired
	}
	room, err := store.Transact(ctx, s.store, CollectionRooms, roomID, func(r domain.Room) (domain.Room, error) {
		if r.Status != domain.RoomWaiting {
			return r, ErrRoomNotWaiting
		}
		if _, ok := r.Players[callerUID]; !ok {
			return r, ErrNotInRoom
		}
		delete(r.Players, callerUID)
		r.MovesHistory = append(r.MovesHistory, domain.Move{
			PlayerID:  callerUID,
			Action:    domain.MoveLeave,
			Timestamp: time.Now().UnixMilli(),
		})
		return r, nil
	})
	if err != nil {
		if isNotFound(err) {
			return ErrRoomNotFound
		}
		return err
	}
	if len(room.Players) == 0 {
		return s.store.Delete(ctx, CollectionRooms, roomID)
	}
	return nil
}

// Get returns a room snapshot.
func (s *RoomService) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	if roomID == "" {
		return nil, ErrRoomIDRequired
	}
	room, err := store.Get[domain.Room](ctx, s.store, CollectionRooms, roomID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListOpen returns WAITING rooms that still have capacity.
func (s *RoomService) ListOpen(ctx context.Context, limit int) ([]*domain.Room, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var open []*domain.Room
	cursor := ""
	for {
		rooms, next, err := store.List[domain.Room](ctx, s.store, CollectionRooms, limit, cursor)
		if err != nil {
			return nil, err
		}
		for i := range rooms {
			r := rooms[i]
			if r.Status == domain.RoomWaiting && !r.IsFull() {
				open = append(open, &r)
				if len(open) >= limit {
					return open, nil
				}
			}
		}
		if next == "" {
			return open, nil
		}
		cursor = next
	}
}

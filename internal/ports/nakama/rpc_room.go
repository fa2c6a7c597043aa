package nakama

import (
	"context"
	"database/sql"

	"ludocash/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateRoomRequest is the payload for the create_room RPC.
type CreateRoomRequest struct {
	BetAmount  int64 `json:"bet_amount"`
	MaxPlayers int   `json:"max_players"`
}

// RoomResponse wraps a room snapshot returned to clients.
type RoomResponse struct {
	Room *domain.Room `json:"room"`
}

func (d *rpcDeps) rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req CreateRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	room, err := d.rooms.Create(ctx, uid, req.BetAmount, req.MaxPlayers)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("room %s created by %s, bet %d", room.RoomID, uid, room.BetAmount)
	return respond(RoomResponse{Room: room})
}

// JoinRoomRequest is the payload for the join_room, ready_player, leave_room
// and get_room RPCs.
type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

func (d *rpcDeps) rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	room, err := d.rooms.Join(ctx, uid, req.RoomID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("player %s joined room %s (%d/%d)", uid, room.RoomID, len(room.Players), room.MaxPlayers)
	return respond(RoomResponse{Room: room})
}

func (d *rpcDeps) rpcReadyPlayer(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	room, err := d.rooms.Ready(ctx, uid, req.RoomID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return respond(RoomResponse{Room: room})
}

// LeaveRoomResponse acknowledges a leave.
type LeaveRoomResponse struct {
	Left bool `json:"left"`
}

func (d *rpcDeps) rpcLeaveRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	if err := d.rooms.Leave(ctx, uid, req.RoomID); err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("player %s left room %s", uid, req.RoomID)
	return respond(LeaveRoomResponse{Left: true})
}

func (d *rpcDeps) rpcGetRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := callerID(ctx); err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	room, err := d.rooms.Get(ctx, req.RoomID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return respond(RoomResponse{Room: room})
}

// ListOpenRoomsRequest is the payload for the list_open_rooms RPC.
type ListOpenRoomsRequest struct {
	Limit int `json:"limit"`
}

// ListOpenRoomsResponse lists joinable rooms.
type ListOpenRoomsResponse struct {
	Rooms []*domain.Room `json:"rooms"`
}

func (d *rpcDeps) rpcListOpenRooms(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := callerID(ctx); err != nil {
		return "", err
	}
	var req ListOpenRoomsRequest
	if payload != "" {
		if err := parse(payload, &req); err != nil {
			return "", err
		}
	}

	rooms, err := d.rooms.ListOpen(ctx, req.Limit)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return respond(ListOpenRoomsResponse{Rooms: rooms})
}

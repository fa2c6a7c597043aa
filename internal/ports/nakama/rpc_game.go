package nakama

import (
	"context"
	"database/sql"

	"ludocash/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// StartGameResponse is the payload returned by the start_game RPC.
type StartGameResponse struct {
	Room          *domain.Room `json:"room"`
	TurnOrder     []string     `json:"turn_order"`
	CurrentPlayer string       `json:"current_player"`
	Pot           int64        `json:"pot"`
}

func (d *rpcDeps) rpcStartGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	result, err := d.games.Start(ctx, uid, req.RoomID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	for _, betErr := range result.BetErrors {
		logger.Error("bet collection failed in room %s: %v", req.RoomID, betErr)
	}
	logger.Info("game started in room %s, pot %d, first turn %s", req.RoomID, result.Room.PotAmount, result.CurrentPlayer)
	return respond(StartGameResponse{
		Room:          result.Room,
		TurnOrder:     result.TurnOrder,
		CurrentPlayer: result.CurrentPlayer,
		Pot:           result.Room.PotAmount,
	})
}

// RollDiceResponse is the payload returned by the roll_dice RPC.
type RollDiceResponse struct {
	DiceValue  int           `json:"dice_value"`
	NextPlayer string        `json:"next_player"`
	BoardState *domain.Board `json:"board_state"`
}

func (d *rpcDeps) rpcRollDice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	result, err := d.games.Roll(ctx, uid, req.RoomID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return respond(RollDiceResponse{
		DiceValue:  result.DiceValue,
		NextPlayer: result.NextPlayer,
		BoardState: result.Board,
	})
}

// SkipTurnResponse is the payload returned by the skip_turn RPC.
type SkipTurnResponse struct {
	SkipCount    int  `json:"skip_count"`
	Forfeited    bool `json:"forfeited"`
	GameFinished bool `json:"game_finished"`
}

func (d *rpcDeps) rpcSkipTurn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	result, err := d.games.Skip(ctx, uid, req.RoomID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	if result.Forfeited {
		logger.Info("player %s forfeited in room %s after %d skips", uid, req.RoomID, result.SkipCount)
	}
	if result.SettleErr != nil {
		logger.Error("settlement failed for room %s: %v", req.RoomID, result.SettleErr)
	}
	return respond(SkipTurnResponse{
		SkipCount:    result.SkipCount,
		Forfeited:    result.Forfeited,
		GameFinished: result.GameFinished,
	})
}

// ForfeitRequest is the payload for the forfeit RPC. PlayerID is optional
// and defaults to the caller; requesting another player is rejected.
type ForfeitRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id,omitempty"`
}

// ForfeitResponse is the payload returned by the forfeit RPC.
type ForfeitResponse struct {
	GameFinished bool `json:"game_finished"`
}

func (d *rpcDeps) rpcForfeit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req ForfeitRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	result, err := d.games.Forfeit(ctx, uid, req.RoomID, req.PlayerID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("player %s forfeited room %s", uid, req.RoomID)
	if result.SettleErr != nil {
		logger.Error("settlement failed for room %s: %v", req.RoomID, result.SettleErr)
	}
	return respond(ForfeitResponse{GameFinished: result.GameFinished})
}

// FinalizeGameResponse acknowledges a finalize request.
type FinalizeGameResponse struct {
	Finalized bool `json:"finalized"`
}

func (d *rpcDeps) rpcFinalizeGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if _, err := callerID(ctx); err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	if err := d.games.Finalize(ctx, req.RoomID); err != nil {
		return "", toRuntimeError(logger, err)
	}
	return respond(FinalizeGameResponse{Finalized: true})
}

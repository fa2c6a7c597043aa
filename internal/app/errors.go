package app

import "errors"

// Domain errors surfaced to callers with a stable kind. The nakama adapter
// maps each to the matching gRPC code.
var (
	ErrInvalidBetAmount  = errors.New("bet amount is not an allowed denomination")
	ErrInvalidMaxPlayers = errors.New("max players must be between 2 and 4")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrRoomIDRequired    = errors.New("room ID is required")

	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomNotWaiting = errors.New("room is not accepting new players")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("user already in room")
	ErrNotInRoom      = errors.New("player not in room")

	ErrNotAllReady        = errors.New("not all players are ready")
	ErrTooFewPlayers      = errors.New("not enough players to start")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameNotActive      = errors.New("game is not active")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrPlayerForfeited    = errors.New("player is forfeited")
	ErrAlreadyForfeited   = errors.New("player already forfeited")
	ErrForfeitNotAllowed  = errors.New("cannot forfeit another player")

	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	ErrOrderNotFound    = errors.New("order not found")
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("malformed webhook payload")
)

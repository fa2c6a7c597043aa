package nakama

import (
	"errors"

	"ludocash/internal/app"
	"ludocash/internal/store"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeAlreadyExists      = 6
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeAborted            = 10
	codeInternal           = 13
	codeUnauthenticated    = 16
)

// toRuntimeError maps app and store errors to Nakama runtime errors with the
// matching gRPC code. Unknown errors are logged and returned as Internal so
// internals never leak to clients.
func toRuntimeError(logger runtime.Logger, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrInvalidBetAmount),
		errors.Is(err, app.ErrInvalidMaxPlayers),
		errors.Is(err, app.ErrInvalidAmount),
		errors.Is(err, app.ErrRoomIDRequired),
		errors.Is(err, app.ErrMissingSignature),
		errors.Is(err, app.ErrInvalidSignature),
		errors.Is(err, app.ErrInvalidPayload):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, app.ErrRoomNotFound),
		errors.Is(err, app.ErrOrderNotFound),
		errors.Is(err, app.ErrNotInRoom):
		return runtime.NewError(err.Error(), codeNotFound)
	case errors.Is(err, app.ErrAlreadyInRoom),
		errors.Is(err, app.ErrAlreadyForfeited):
		return runtime.NewError(err.Error(), codeAlreadyExists)
	case errors.Is(err, app.ErrNotYourTurn),
		errors.Is(err, app.ErrForfeitNotAllowed):
		return runtime.NewError(err.Error(), codePermissionDenied)
	case errors.Is(err, app.ErrRoomNotWaiting),
		errors.Is(err, app.ErrRoomFull),
		errors.Is(err, app.ErrNotAllReady),
		errors.Is(err, app.ErrTooFewPlayers),
		errors.Is(err, app.ErrGameAlreadyStarted),
		errors.Is(err, app.ErrGameNotActive),
		errors.Is(err, app.ErrPlayerForfeited),
		errors.Is(err, app.ErrInsufficientFunds):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	case errors.Is(err, store.ErrAborted):
		return runtime.NewError("storage contention, retry", codeAborted)
	default:
		logger.Error("internal error: %v", err)
		return runtime.NewError("internal error", codeInternal)
	}
}

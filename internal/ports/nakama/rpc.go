package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"ludocash/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

type rpcFunc func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

// rpcDeps holds the wired application services shared by all RPC handlers.
type rpcDeps struct {
	rooms    *app.RoomService
	games    *app.GameService
	wallets  *app.WalletService
	payments *app.PaymentService
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, deps *rpcDeps) error {
	for id, fn := range map[string]rpcFunc{
		RpcCreateRoom:    deps.rpcCreateRoom,
		RpcJoinRoom:      deps.rpcJoinRoom,
		RpcReadyPlayer:   deps.rpcReadyPlayer,
		RpcLeaveRoom:     deps.rpcLeaveRoom,
		RpcGetRoom:       deps.rpcGetRoom,
		RpcListOpenRooms: deps.rpcListOpenRooms,

		RpcStartGame:    deps.rpcStartGame,
		RpcRollDice:     deps.rpcRollDice,
		RpcSkipTurn:     deps.rpcSkipTurn,
		RpcForfeit:      deps.rpcForfeit,
		RpcFinalizeGame: deps.rpcFinalizeGame,

		RpcGetWallet:          deps.rpcGetWallet,
		RpcCreateDepositOrder: deps.rpcCreateDepositOrder,
		RpcRazorpayWebhook:    deps.rpcRazorpayWebhook,
		RpcRequestWithdrawal:  deps.rpcRequestWithdrawal,
	} {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// callerID extracts the authenticated user id from the runtime context.
func callerID(ctx context.Context) (string, error) {
	uid, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || uid == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}
	return uid, nil
}

// webhookSignature pulls the gateway signature header from a
// server-to-server RPC call.
func webhookSignature(ctx context.Context) string {
	headers, ok := ctx.Value(runtime.RUNTIME_CTX_HEADERS).(map[string][]string)
	if !ok {
		return ""
	}
	return http.Header(headers).Get("X-Razorpay-Signature")
}

// respond marshals an RPC response payload.
func respond(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(b), nil
}

// parse unmarshals an RPC request payload.
func parse(payload string, v interface{}) error {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("invalid request payload", codeInvalidArgument)
	}
	return nil
}

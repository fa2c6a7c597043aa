package nakama

import (
	"context"
	"database/sql"

	"ludocash/internal/app"
	"ludocash/internal/config"
	"ludocash/internal/ports/razorpay"
	"ludocash/internal/random"
	"ludocash/internal/store"

	"github.com/heroiclabs/nakama-common/runtime"
)

const gameConfigPath = "data/game_config.json"

// Runtime environment keys for gateway secrets, set in nakama's
// runtime.env config block.
const (
	envRazorpayKeyID         = "ludo_razorpay_key_id"
	envRazorpayKeySecret     = "ludo_razorpay_key_secret"
	envRazorpayWebhookSecret = "ludo_razorpay_webhook_secret"
)

// InitModule wires storage, services and RPCs for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("game config not loaded, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	keyID := env[envRazorpayKeyID]
	keySecret := env[envRazorpayKeySecret]
	webhookSecret := env[envRazorpayWebhookSecret]
	if keyID == "" || keySecret == "" || webhookSecret == "" {
		logger.Warn("razorpay credentials missing from runtime env; payment RPCs will fail")
	}

	st := store.New(NewNakamaStorageAdapter(nk))
	accounts := NewNakamaAccountAdapter(nk)
	gateway := razorpay.NewGateway(keyID, keySecret)

	wallets := app.NewWalletService(st)
	rooms := app.NewRoomService(st, wallets, accounts, cfg)
	games := app.NewGameService(st, wallets, random.Source{}, cfg, app.FirstActiveWinner)
	payments := app.NewPaymentService(st, wallets, gateway, cfg, keyID, webhookSecret)

	deps := &rpcDeps{
		rooms:    rooms,
		games:    games,
		wallets:  wallets,
		payments: payments,
	}
	if err := RegisterRPCs(initializer, deps); err != nil {
		return err
	}

	logger.Info("Ludo session module loaded.")
	return nil
}

package nakama

import (
	"context"
	"database/sql"

	"ludocash/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// WalletResponse is the payload returned by the get_wallet RPC.
type WalletResponse struct {
	Balance            int64                      `json:"balance"`
	Transactions       []domain.LedgerEntry       `json:"transactions"`
	PendingWithdrawals []domain.PendingWithdrawal `json:"pending_withdrawals,omitempty"`
}

func (d *rpcDeps) rpcGetWallet(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}

	account, err := d.wallets.Account(ctx, uid)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}

	// Ledger is stored oldest first; clients want recent activity on top.
	entries := make([]domain.LedgerEntry, len(account.Transactions))
	for i, e := range account.Transactions {
		entries[len(entries)-1-i] = e
	}
	return respond(WalletResponse{
		Balance:            account.Balance,
		Transactions:       entries,
		PendingWithdrawals: account.PendingWithdrawals,
	})
}

// CreateDepositOrderRequest is the payload for the create_deposit_order RPC.
// Amount is in whole rupees.
type CreateDepositOrderRequest struct {
	Amount int64 `json:"amount"`
}

// CreateDepositOrderResponse carries what the client needs to open checkout.
type CreateDepositOrderResponse struct {
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	GatewayKey  string `json:"key_id"`
}

func (d *rpcDeps) rpcCreateDepositOrder(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req CreateDepositOrderRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	order, err := d.payments.CreateOrder(ctx, uid, req.Amount)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("deposit order %s created for %s, amount %d", order.OrderID, uid, req.Amount)
	return respond(CreateDepositOrderResponse{
		OrderID:     order.OrderID,
		AmountPaise: order.AmountPaise,
		Currency:    order.Currency,
		GatewayKey:  order.GatewayKey,
	})
}

// WebhookResponse acknowledges a processed gateway webhook.
type WebhookResponse struct {
	Status string `json:"status"`
}

// rpcRazorpayWebhook is called server-to-server by the payment gateway. It
// carries no Nakama session; authentication is the HMAC signature over the
// raw body.
func (d *rpcDeps) rpcRazorpayWebhook(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	outcome, err := d.payments.HandleWebhook(ctx, []byte(payload), webhookSignature(ctx))
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	if outcome.Ignored != "" {
		logger.Warn("webhook %s for order %s ignored: %s", outcome.Event, outcome.OrderID, outcome.Ignored)
	} else if outcome.Credited {
		logger.Info("deposit credited for order %s, payment %s", outcome.OrderID, outcome.PaymentID)
	}
	return respond(WebhookResponse{Status: "ok"})
}

// WithdrawalRequest is the payload for the request_withdrawal RPC. Amount is
// in whole rupees.
type WithdrawalRequest struct {
	Amount int64 `json:"amount"`
}

// WithdrawalResponse returns the id of the recorded withdrawal request.
type WithdrawalResponse struct {
	WithdrawalID string `json:"withdrawal_id"`
	Status       string `json:"status"`
}

func (d *rpcDeps) rpcRequestWithdrawal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req WithdrawalRequest
	if err := parse(payload, &req); err != nil {
		return "", err
	}

	id, err := d.payments.RequestWithdrawal(ctx, uid, req.Amount)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	logger.Info("withdrawal %s requested by %s, amount %d", id, uid, req.Amount)
	return respond(WithdrawalResponse{WithdrawalID: id, Status: "pending"})
}

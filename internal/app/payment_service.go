package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ludocash/internal/config"
	"ludocash/internal/domain"
	"ludocash/internal/ports"
	"ludocash/internal/store"

	"github.com/razorpay/razorpay-go/utils"
)

// PaymentService bridges the external payment gateway: deposit order
// creation, webhook-driven settlement and withdrawal requests. The single
// CREATED -> COMPLETED order transition is the idempotency gate for deposit
// credits; duplicate gateway events are no-ops.
type PaymentService struct {
	store         *store.Store
	wallets       *WalletService
	gateway       ports.PaymentGateway
	cfg           *config.GameConfig
	gatewayKeyID  string
	webhookSecret string
}

// NewPaymentService constructs a PaymentService. gatewayKeyID is the public
// key returned to clients for checkout; webhookSecret signs webhook bodies.
func NewPaymentService(st *store.Store, wallets *WalletService, gateway ports.PaymentGateway, cfg *config.GameConfig, gatewayKeyID, webhookSecret string) *PaymentService {
	if cfg == nil {
		cfg = config.Default()
	}
	return &PaymentService{
		store:         st,
		wallets:       wallets,
		gateway:       gateway,
		cfg:           cfg,
		gatewayKeyID:  gatewayKeyID,
		webhookSecret: webhookSecret,
	}
}

// OrderResult is returned to the client to open the gateway checkout.
type OrderResult struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	GatewayKey  string
}

// CreateOrder registers a deposit order with the gateway and persists the
// pending order keyed by the gateway's order id for webhook lookup.
func (s *PaymentService) CreateOrder(ctx context.Context, uid string, amount int64) (*OrderResult, error) {
	if amount <= 0 || amount > s.cfg.MaxDepositAmount {
		return nil, fmt.Errorf("deposit amount %d out of range: %w", amount, ErrInvalidAmount)
	}

	now := time.Now().UnixMilli()
	receipt := fmt.Sprintf("deposit_%s_%d", uid, now)
	notes := map[string]interface{}{
		"user_id": uid,
		"type":    "wallet_deposit",
	}
	gw, err := s.gateway.CreateOrder(ctx, amount*100, s.cfg.Currency, receipt, notes)
	if err != nil {
		return nil, fmt.Errorf("gateway order: %w", err)
	}

	order := domain.PendingOrder{
		OrderID:   gw.OrderID,
		UserID:    uid,
		Amount:    amount,
		Currency:  gw.Currency,
		Status:    domain.OrderCreated,
		CreatedAt: now,
		ExpiresAt: now + int64(s.cfg.OrderTTLMinutes)*60_000,
	}
	if err := store.Create(ctx, s.store, CollectionOrders, order.OrderID, order); err != nil {
		return nil, fmt.Errorf("persist order %s: %w", order.OrderID, err)
	}

	return &OrderResult{
		OrderID:     gw.OrderID,
		AmountPaise: gw.AmountPaise,
		Currency:    gw.Currency,
		GatewayKey:  s.gatewayKeyID,
	}, nil
}

// webhookEvent is the subset of the gateway webhook body this module reads.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	AmountPaise      int64  `json:"amount"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

// WebhookOutcome describes what a verified webhook event did. Ignored is a
// short reason when the event was a deliberate no-op; such events still
// succeed at the transport so the gateway does not retry them.
type WebhookOutcome struct {
	Event     string
	OrderID   string
	PaymentID string
	Credited  bool
	Ignored   string
}

// HandleWebhook verifies the gateway signature over the raw body and
// dispatches the event. Unverified payloads are never processed.
func (s *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature string) (*WebhookOutcome, error) {
	if signature == "" {
		return nil, ErrMissingSignature
	}
	if !utils.VerifyWebhookSignature(string(rawBody), signature, s.webhookSecret) {
		return nil, ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("webhook body: %w", ErrInvalidPayload)
	}

	switch event.Event {
	case "payment.captured":
		return s.handleCaptured(ctx, event.Payload.Payment.Entity)
	case "payment.failed":
		return s.handleFailed(ctx, event.Payload.Payment.Entity)
	default:
		return &WebhookOutcome{Event: event.Event, Ignored: "unhandled_event"}, nil
	}
}

// handleCaptured transitions the order CREATED -> COMPLETED and credits the
// wallet. A duplicate captured event finds the order already COMPLETED and
// changes nothing; an unknown order or a paise mismatch is logged by the
// caller and dropped rather than failing the webhook transport.
func (s *PaymentService) handleCaptured(ctx context.Context, pay paymentEntity) (*WebhookOutcome, error) {
	out := &WebhookOutcome{Event: "payment.captured", OrderID: pay.OrderID, PaymentID: pay.ID}

	var completedNow bool
	order, err := store.Transact(ctx, s.store, CollectionOrders, pay.OrderID, func(o domain.PendingOrder) (domain.PendingOrder, error) {
		completedNow = false
		out.Ignored = ""
		if o.Status != domain.OrderCreated {
			out.Ignored = "duplicate"
			return o, nil
		}
		if pay.AmountPaise != o.Amount*100 {
			out.Ignored = "amount_mismatch"
			return o, nil
		}
		o.Status = domain.OrderCompleted
		o.PaymentID = pay.ID
		o.CompletedAt = time.Now().UnixMilli()
		completedNow = true
		return o, nil
	})
	if err != nil {
		if isNotFound(err) {
			out.Ignored = "unknown_order"
			return out, nil
		}
		return nil, err
	}
	if !completedNow {
		return out, nil
	}

	credited, err := s.wallets.CreditOnce(ctx, order.UserID, order.Amount, domain.EntryDeposit,
		"Wallet deposit via Razorpay",
		domain.EntryLink{OrderID: order.OrderID, PaymentID: order.PaymentID},
	)
	if err != nil {
		return nil, fmt.Errorf("credit deposit for order %s: %w", order.OrderID, err)
	}
	out.Credited = credited
	return out, nil
}

// handleFailed records gateway failure details on a CREATED order. The
// terminal status is only ever set once; events for orders already settled
// are dropped.
func (s *PaymentService) handleFailed(ctx context.Context, pay paymentEntity) (*WebhookOutcome, error) {
	out := &WebhookOutcome{Event: "payment.failed", OrderID: pay.OrderID, PaymentID: pay.ID}

	_, err := store.Transact(ctx, s.store, CollectionOrders, pay.OrderID, func(o domain.PendingOrder) (domain.PendingOrder, error) {
		out.Ignored = ""
		if o.Status != domain.OrderCreated {
			out.Ignored = "duplicate"
			return o, nil
		}
		o.Status = domain.OrderFailed
		o.PaymentID = pay.ID
		o.ErrorCode = pay.ErrorCode
		o.ErrorDescription = pay.ErrorDescription
		o.FailedAt = time.Now().UnixMilli()
		return o, nil
	})
	if err != nil {
		if isNotFound(err) {
			out.Ignored = "unknown_order"
			return out, nil
		}
		return nil, err
	}
	return out, nil
}

// RequestWithdrawal validates bounds and records a pending withdrawal plus
// its pending ledger entry. No balance is deducted at request time; payout
// execution is out of scope.
func (s *PaymentService) RequestWithdrawal(ctx context.Context, uid string, amount int64) (string, error) {
	if amount <= 0 || amount > s.cfg.MaxWithdrawalAmount {
		return "", fmt.Errorf("withdrawal amount %d out of range: %w", amount, ErrInvalidAmount)
	}
	return s.wallets.RequestWithdrawal(ctx, uid, amount)
}

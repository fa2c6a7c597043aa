package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"ludocash/internal/domain"
	"ludocash/internal/store"
)

const testWebhookSecret = "whsec_test"

func newPaymentFixture(t *testing.T) (*PaymentService, *WalletService, *fakeGateway, *store.Store) {
	t.Helper()
	st := newTestStore()
	wallets := NewWalletService(st)
	gateway := &fakeGateway{}
	payments := NewPaymentService(st, wallets, gateway, testConfig(), "rzp_test_key", testWebhookSecret)
	return payments, wallets, gateway, st
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func capturedEvent(orderID, paymentID string, amountPaise int64) string {
	return fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":%d}}}}`,
		paymentID, orderID, amountPaise)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	payments, _, gateway, st := newPaymentFixture(t)

	if _, err := payments.CreateOrder(ctx, "u1", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := payments.CreateOrder(ctx, "u1", 10001); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount over cap, got %v", err)
	}

	order, err := payments.CreateOrder(ctx, "u1", 500)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.AmountPaise != 50000 {
		t.Fatalf("expected 50000 paise, got %d", order.AmountPaise)
	}
	if gateway.lastReq.amountPaise != 50000 || gateway.lastReq.currency != "INR" {
		t.Fatalf("gateway got %+v", gateway.lastReq)
	}
	if order.GatewayKey != "rzp_test_key" {
		t.Fatalf("missing gateway key in %+v", order)
	}

	pending, err := store.Get[domain.PendingOrder](ctx, st, CollectionOrders, order.OrderID)
	if err != nil {
		t.Fatalf("pending order not stored: %v", err)
	}
	if pending.Status != domain.OrderCreated || pending.UserID != "u1" || pending.Amount != 500 {
		t.Fatalf("unexpected pending order: %+v", pending)
	}
	if pending.ExpiresAt <= pending.CreatedAt {
		t.Fatalf("expiry not set: %+v", pending)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	ctx := context.Background()
	payments, _, _, _ := newPaymentFixture(t)
	body := capturedEvent("order_1", "pay_1", 50000)

	if _, err := payments.HandleWebhook(ctx, []byte(body), ""); !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
	if _, err := payments.HandleWebhook(ctx, []byte(body), "deadbeef"); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestWebhookCapturedCreditsOnce(t *testing.T) {
	ctx := context.Background()
	payments, wallets, _, _ := newPaymentFixture(t)

	order, err := payments.CreateOrder(ctx, "u1", 500)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	body := capturedEvent(order.OrderID, "pay_1", 50000)
	outcome, err := payments.HandleWebhook(ctx, []byte(body), sign(body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if !outcome.Credited || outcome.Ignored != "" {
		t.Fatalf("expected credit, got %+v", outcome)
	}

	balance, _ := wallets.Balance(ctx, "u1")
	if balance != 500 {
		t.Fatalf("expected balance 500, got %d", balance)
	}
	acct, _ := wallets.Account(ctx, "u1")
	entry := acct.Transactions[0]
	if entry.Kind != domain.EntryDeposit || entry.OrderID != order.OrderID || entry.PaymentID != "pay_1" {
		t.Fatalf("unexpected deposit entry: %+v", entry)
	}

	// Gateway retry: duplicate event must not double-credit.
	outcome, err = payments.HandleWebhook(ctx, []byte(body), sign(body))
	if err != nil {
		t.Fatalf("duplicate webhook: %v", err)
	}
	if outcome.Credited || outcome.Ignored != "duplicate" {
		t.Fatalf("expected duplicate no-op, got %+v", outcome)
	}
	balance, _ = wallets.Balance(ctx, "u1")
	if balance != 500 {
		t.Fatalf("double credit: %d", balance)
	}
}

func TestWebhookCapturedAmountMismatch(t *testing.T) {
	ctx := context.Background()
	payments, wallets, _, st := newPaymentFixture(t)

	order, err := payments.CreateOrder(ctx, "u1", 500)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	body := capturedEvent(order.OrderID, "pay_1", 1)
	outcome, err := payments.HandleWebhook(ctx, []byte(body), sign(body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if outcome.Credited || outcome.Ignored != "amount_mismatch" {
		t.Fatalf("expected amount_mismatch no-op, got %+v", outcome)
	}

	balance, _ := wallets.Balance(ctx, "u1")
	if balance != 0 {
		t.Fatalf("mismatched amount credited: %d", balance)
	}
	pending, _ := store.Get[domain.PendingOrder](context.Background(), st, CollectionOrders, order.OrderID)
	if pending.Status != domain.OrderCreated {
		t.Fatalf("mismatch must not settle the order: %s", pending.Status)
	}
}

func TestWebhookUnknownOrder(t *testing.T) {
	ctx := context.Background()
	payments, _, _, _ := newPaymentFixture(t)

	body := capturedEvent("order_ghost", "pay_1", 50000)
	outcome, err := payments.HandleWebhook(ctx, []byte(body), sign(body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if outcome.Ignored != "unknown_order" {
		t.Fatalf("expected unknown_order, got %+v", outcome)
	}
}

func TestWebhookFailedEvent(t *testing.T) {
	ctx := context.Background()
	payments, wallets, _, st := newPaymentFixture(t)

	order, err := payments.CreateOrder(ctx, "u1", 500)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	body := fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q,"amount":50000,"error_code":"BAD_REQUEST_ERROR","error_description":"card declined"}}}}`, order.OrderID)
	outcome, err := payments.HandleWebhook(ctx, []byte(body), sign(body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if outcome.Ignored != "" {
		t.Fatalf("expected failure applied, got %+v", outcome)
	}

	pending, _ := store.Get[domain.PendingOrder](ctx, st, CollectionOrders, order.OrderID)
	if pending.Status != domain.OrderFailed || pending.ErrorCode != "BAD_REQUEST_ERROR" {
		t.Fatalf("failure not recorded: %+v", pending)
	}
	balance, _ := wallets.Balance(ctx, "u1")
	if balance != 0 {
		t.Fatalf("failed payment credited: %d", balance)
	}

	// A late captured event after failure stays a no-op.
	captured := capturedEvent(order.OrderID, "pay_1", 50000)
	outcome, err = payments.HandleWebhook(ctx, []byte(captured), sign(captured))
	if err != nil {
		t.Fatalf("late captured: %v", err)
	}
	if outcome.Credited || outcome.Ignored != "duplicate" {
		t.Fatalf("terminal order reopened: %+v", outcome)
	}
}

func TestWebhookUnhandledEvent(t *testing.T) {
	ctx := context.Background()
	payments, _, _, _ := newPaymentFixture(t)

	body := `{"event":"order.paid","payload":{}}`
	outcome, err := payments.HandleWebhook(ctx, []byte(body), sign(body))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if outcome.Ignored != "unhandled_event" {
		t.Fatalf("expected unhandled_event, got %+v", outcome)
	}
}

func TestRequestWithdrawalBounds(t *testing.T) {
	ctx := context.Background()
	payments, wallets, _, _ := newPaymentFixture(t)

	if _, err := payments.RequestWithdrawal(ctx, "u1", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := payments.RequestWithdrawal(ctx, "u1", 50001); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount over cap, got %v", err)
	}

	fund(t, wallets, "u1", 100)
	id, err := payments.RequestWithdrawal(ctx, "u1", 50)
	if err != nil {
		t.Fatalf("withdrawal: %v", err)
	}
	if id == "" {
		t.Fatal("empty withdrawal id")
	}
}

package razorpay

import (
	"context"
	"fmt"

	"ludocash/internal/ports"

	razorpay "github.com/razorpay/razorpay-go"
)

var _ ports.PaymentGateway = (*Gateway)(nil)

// Gateway adapts the Razorpay SDK to the PaymentGateway port.
type Gateway struct {
	client *razorpay.Client
}

// NewGateway builds a Gateway from API credentials.
func NewGateway(keyID, keySecret string) *Gateway {
	return &Gateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder registers an order with Razorpay. Amounts are in paise.
func (g *Gateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*ports.GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order create: response missing order id")
	}
	order := &ports.GatewayOrder{
		OrderID:     id,
		AmountPaise: amountPaise,
		Currency:    currency,
	}
	if c, ok := body["currency"].(string); ok && c != "" {
		order.Currency = c
	}
	if a, ok := body["amount"].(float64); ok && a > 0 {
		order.AmountPaise = int64(a)
	}
	return order, nil
}

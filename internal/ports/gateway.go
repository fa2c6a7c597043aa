package ports

import "context"

// GatewayOrder is an order registered with the external payment gateway.
type GatewayOrder struct {
	OrderID     string
	AmountPaise int64
	Currency    string
}

// PaymentGateway creates orders with the external payment provider.
// Settlement arrives asynchronously through the provider's webhook.
type PaymentGateway interface {
	// CreateOrder registers an order for the given amount in minor units.
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
}

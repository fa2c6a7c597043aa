package domain

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryDeposit    EntryKind = "deposit"
	EntryWithdrawal EntryKind = "withdrawal"
	EntryBet        EntryKind = "bet"
	EntryWin        EntryKind = "win"
	EntryRefund     EntryKind = "refund"
)

// EntryStatus tracks the settlement state of a ledger entry. Entries are
// immutable once written except for pending -> completed/failed transitions.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
	EntryFailed    EntryStatus = "failed"
)

// EntryLink ties a ledger entry to the room, order or withdrawal it settles.
type EntryLink struct {
	RoomID       string `json:"room_id,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	PaymentID    string `json:"payment_id,omitempty"`
	WithdrawalID string `json:"withdrawal_id,omitempty"`
}

// LedgerEntry is one wallet-affecting event in a user's append-only log.
type LedgerEntry struct {
	ID          string      `json:"id"`
	Kind        EntryKind   `json:"type"`
	Amount      int64       `json:"amount"`
	Timestamp   int64       `json:"timestamp"`
	Status      EntryStatus `json:"status"`
	Description string      `json:"description,omitempty"`
	EntryLink
}

// PendingWithdrawal is a payout request awaiting processing. Actual payout
// and balance deduction happen outside this module.
type PendingWithdrawal struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	RequestedAt int64  `json:"requested_at"`
}

// WalletAccount is a user's balance plus transaction log.
type WalletAccount struct {
	UID                string              `json:"uid"`
	Balance            int64               `json:"balance"`
	Transactions       []LedgerEntry       `json:"transactions"`
	PendingWithdrawals []PendingWithdrawal `json:"pending_withdrawals,omitempty"`
}

// HasEntry reports whether the account already holds an entry of the given
// kind linked to the given room or order. Used as the idempotency gate for
// settlement credits and deposit credits.
func (w *WalletAccount) HasEntry(kind EntryKind, link EntryLink) bool {
	for i := range w.Transactions {
		e := &w.Transactions[i]
		if e.Kind != kind {
			continue
		}
		if link.RoomID != "" && e.RoomID == link.RoomID {
			return true
		}
		if link.OrderID != "" && e.OrderID == link.OrderID {
			return true
		}
	}
	return false
}

// OrderStatus tracks the lifecycle of a deposit order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
	OrderExpired   OrderStatus = "expired"
)

// PendingOrder is a gateway deposit order awaiting its webhook outcome.
// The terminal status is set exactly once; a second transition is a no-op.
type PendingOrder struct {
	OrderID          string      `json:"order_id"`
	UserID           string      `json:"user_id"`
	Amount           int64       `json:"amount"`
	Currency         string      `json:"currency"`
	Status           OrderStatus `json:"status"`
	PaymentID        string      `json:"payment_id,omitempty"`
	ErrorCode        string      `json:"error_code,omitempty"`
	ErrorDescription string      `json:"error_description,omitempty"`
	CreatedAt        int64       `json:"created_at"`
	ExpiresAt        int64       `json:"expires_at"`
	CompletedAt      int64       `json:"completed_at,omitempty"`
	FailedAt         int64       `json:"failed_at,omitempty"`
}

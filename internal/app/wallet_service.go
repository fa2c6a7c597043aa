package app

import (
	"context"
	"fmt"
	"time"

	"ludocash/internal/domain"
	"ludocash/internal/store"

	"github.com/google/uuid"
)

// Storage collections for the record store.
const (
	CollectionRooms   = "rooms"
	CollectionWallets = "wallets"
	CollectionOrders  = "pending_orders"
)

// WalletService owns per-user balances and their append-only ledgers. Every
// mutation is a single CAS transaction on the user's wallet record, so the
// balance and the ledger can never drift apart for one user.
type WalletService struct {
	store *store.Store
}

// NewWalletService constructs a WalletService.
func NewWalletService(st *store.Store) *WalletService {
	return &WalletService{store: st}
}

func emptyAccount(uid string) domain.WalletAccount {
	return domain.WalletAccount{UID: uid}
}

// Account returns the wallet snapshot for a user. Users without any wallet
// activity get an empty zero-balance account.
func (s *WalletService) Account(ctx context.Context, uid string) (*domain.WalletAccount, error) {
	acct, err := store.Get[domain.WalletAccount](ctx, s.store, CollectionWallets, uid)
	if err != nil {
		if isNotFound(err) {
			a := emptyAccount(uid)
			return &a, nil
		}
		return nil, err
	}
	return &acct, nil
}

// Balance returns the current balance for a user.
func (s *WalletService) Balance(ctx context.Context, uid string) (int64, error) {
	acct, err := s.Account(ctx, uid)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func newEntry(kind domain.EntryKind, amount int64, status domain.EntryStatus, desc string, link domain.EntryLink) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:          uuid.NewString(),
		Kind:        kind,
		Amount:      amount,
		Timestamp:   time.Now().UnixMilli(),
		Status:      status,
		Description: desc,
		EntryLink:   link,
	}
}

// Credit adds amount to the user's balance and appends a completed ledger
// entry in the same transaction.
func (s *WalletService) Credit(ctx context.Context, uid string, amount int64, kind domain.EntryKind, desc string, link domain.EntryLink) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	_, err := store.TransactOrInit(ctx, s.store, CollectionWallets, uid, emptyAccount(uid), func(a domain.WalletAccount) (domain.WalletAccount, error) {
		a.Balance += amount
		a.Transactions = append(a.Transactions, newEntry(kind, amount, domain.EntryCompleted, desc, link))
		return a, nil
	})
	return err
}

// CreditOnce behaves like Credit but is idempotent on the entry link: when
// an entry of the same kind already references the same room or order, no
// balance change or new entry is committed. Returns whether a credit was
// applied.
func (s *WalletService) CreditOnce(ctx context.Context, uid string, amount int64, kind domain.EntryKind, desc string, link domain.EntryLink) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	applied := false
	_, err := store.TransactOrInit(ctx, s.store, CollectionWallets, uid, emptyAccount(uid), func(a domain.WalletAccount) (domain.WalletAccount, error) {
		applied = false
		if a.HasEntry(kind, link) {
			return a, nil
		}
		applied = true
		a.Balance += amount
		a.Transactions = append(a.Transactions, newEntry(kind, amount, domain.EntryCompleted, desc, link))
		return a, nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// Debit subtracts amount from the user's balance and appends a completed
// ledger entry. The transform rejects without committing when the balance
// would settle negative.
func (s *WalletService) Debit(ctx context.Context, uid string, amount int64, kind domain.EntryKind, desc string, link domain.EntryLink) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	_, err := store.TransactOrInit(ctx, s.store, CollectionWallets, uid, emptyAccount(uid), func(a domain.WalletAccount) (domain.WalletAccount, error) {
		if a.Balance < amount {
			return a, fmt.Errorf("debit %d from %s: %w", amount, uid, ErrInsufficientFunds)
		}
		a.Balance -= amount
		a.Transactions = append(a.Transactions, newEntry(kind, amount, domain.EntryCompleted, desc, link))
		return a, nil
	})
	return err
}

// DebitOnce behaves like Debit but is idempotent on the entry link, for
// bet collection that may be re-driven after a partial failure.
func (s *WalletService) DebitOnce(ctx context.Context, uid string, amount int64, kind domain.EntryKind, desc string, link domain.EntryLink) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	applied := false
	_, err := store.TransactOrInit(ctx, s.store, CollectionWallets, uid, emptyAccount(uid), func(a domain.WalletAccount) (domain.WalletAccount, error) {
		applied = false
		if a.HasEntry(kind, link) {
			return a, nil
		}
		if a.Balance < amount {
			return a, fmt.Errorf("debit %d from %s: %w", amount, uid, ErrInsufficientFunds)
		}
		applied = true
		a.Balance -= amount
		a.Transactions = append(a.Transactions, newEntry(kind, amount, domain.EntryCompleted, desc, link))
		return a, nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// RequestWithdrawal records a pending withdrawal and its pending ledger
// entry. The balance check is advisory: no money is deducted until the
// payout actually runs, so two concurrent requests can both pass against
// the same balance. That gap is inherited from the payout flow being out of
// scope and is resolved when payouts deduct for real.
func (s *WalletService) RequestWithdrawal(ctx context.Context, uid string, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	withdrawalID := uuid.NewString()
	_, err := store.TransactOrInit(ctx, s.store, CollectionWallets, uid, emptyAccount(uid), func(a domain.WalletAccount) (domain.WalletAccount, error) {
		if a.Balance < amount {
			return a, fmt.Errorf("withdraw %d from %s: %w", amount, uid, ErrInsufficientFunds)
		}
		now := time.Now().UnixMilli()
		a.PendingWithdrawals = append(a.PendingWithdrawals, domain.PendingWithdrawal{
			ID:          withdrawalID,
			Amount:      amount,
			Status:      "pending",
			RequestedAt: now,
		})
		a.Transactions = append(a.Transactions, newEntry(
			domain.EntryWithdrawal, amount, domain.EntryPending,
			"Withdrawal request",
			domain.EntryLink{WithdrawalID: withdrawalID},
		))
		return a, nil
	})
	if err != nil {
		return "", err
	}
	return withdrawalID, nil
}

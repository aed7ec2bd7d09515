package domain

import (
	"context"
	"time"
)

// Currency names a wallet balance the ledger can mutate.
type Currency string

const (
	CurrencyCoins Currency = "coins"
	CurrencyXP    Currency = "xp"
)

// LedgerReason is the reason code attached to every ledger transaction.
// Together with the user ID and reference ID it forms the idempotency key.
type LedgerReason string

const (
	ReasonAssessmentCoins LedgerReason = "assessment_coins"
	ReasonAssessmentXP    LedgerReason = "assessment_xp"
	ReasonShopPurchase    LedgerReason = "shop_purchase"
)

// Wallet is the derived running balance per user.
type Wallet struct {
	UserID    string
	Coins     int64
	XP        int64
	UpdatedAt time.Time
}

// Balance returns the wallet balance for a currency.
func (w *Wallet) Balance(currency Currency) int64 {
	if currency == CurrencyXP {
		return w.XP
	}
	return w.Coins
}

// SetBalance updates the wallet balance for a currency.
func (w *Wallet) SetBalance(currency Currency, value int64) {
	if currency == CurrencyXP {
		w.XP = value
		return
	}
	w.Coins = value
}

// LedgerTransaction is one append-only delta against a wallet.
type LedgerTransaction struct {
	ID          string
	UserID      string
	Currency    Currency
	Amount      int64 // signed delta
	Reason      LedgerReason
	ReferenceID string // empty for same-day keyed credits
	Metadata    map[string]string
	CreatedAt   time.Time
}

// LedgerMutation is the outcome of an award or spend call.
type LedgerMutation struct {
	NewBalance    int64
	AmountApplied int64
}

// IdempotencyKey is the (user, reason, reference) tuple used to detect and
// suppress duplicate credits. An empty ReferenceID keys on the current
// calendar day instead.
type IdempotencyKey struct {
	UserID      string
	Reason      LedgerReason
	ReferenceID string
}

// IdempotencyChecker decides whether a ledger mutation for a key has already
// been applied. The bundled implementation is a pre-write existence check
// and is only advisory under concurrent writers; the interface exists so a
// unique-constraint-backed implementation can be swapped in without touching
// call sites.
type IdempotencyChecker interface {
	// CheckAndReserve returns true when a transaction for the key already
	// exists, in which case the caller must apply nothing.
	CheckAndReserve(ctx context.Context, key IdempotencyKey) (alreadyApplied bool, err error)
}

// LedgerRepository defines the interface for wallet and transaction
// persistence.
type LedgerRepository interface {
	// FindTransaction returns the transaction matching the idempotency key,
	// or nil when none exists.
	FindTransaction(ctx context.Context, userID string, reason LedgerReason, referenceID string) (*LedgerTransaction, error)

	// FindTransactionSince returns the most recent transaction for
	// (user, reason) created at or after since, or nil when none exists.
	FindTransactionSince(ctx context.Context, userID string, reason LedgerReason, since time.Time) (*LedgerTransaction, error)

	SaveTransaction(ctx context.Context, tx *LedgerTransaction) error

	// GetWallet returns the user's wallet, or nil when the user has none yet.
	GetWallet(ctx context.Context, userID string) (*Wallet, error)

	UpsertWallet(ctx context.Context, wallet *Wallet) error

	// GetTransactionsByUserID returns a page of the user's transaction log,
	// newest first, along with the total count.
	GetTransactionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*LedgerTransaction, int, error)
}

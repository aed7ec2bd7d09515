package repository

import (
	"context"
	"time"

	"utbk-prep/internal/domain"
)

// ledgerIdempotencyChecker implements domain.IdempotencyChecker as a
// pre-write existence check against the transaction log. It takes no locks,
// so it is advisory only: two concurrent callers can both observe "not
// applied" and both write. A unique-constraint-backed implementation can
// replace this one without changing call sites.
type ledgerIdempotencyChecker struct {
	repo domain.LedgerRepository
}

// NewLedgerIdempotencyChecker creates a checker backed by the ledger
// transaction log.
func NewLedgerIdempotencyChecker(repo domain.LedgerRepository) domain.IdempotencyChecker {
	return &ledgerIdempotencyChecker{repo: repo}
}

// CheckAndReserve reports whether a transaction for the key already exists.
// Keys without a reference ID fall back to one-per-calendar-day semantics.
func (c *ledgerIdempotencyChecker) CheckAndReserve(ctx context.Context, key domain.IdempotencyKey) (bool, error) {
	if key.ReferenceID != "" {
		existing, err := c.repo.FindTransaction(ctx, key.UserID, key.Reason, key.ReferenceID)
		if err != nil {
			return false, err
		}
		return existing != nil, nil
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	existing, err := c.repo.FindTransactionSince(ctx, key.UserID, key.Reason, startOfDay)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

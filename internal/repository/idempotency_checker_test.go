package repository

import (
	"context"
	"testing"
	"time"

	"utbk-prep/internal/domain"

	"github.com/stretchr/testify/assert"
)

// stubLedgerRepository implements just enough of domain.LedgerRepository
// for checker tests.
type stubLedgerRepository struct {
	domain.LedgerRepository

	byReference *domain.LedgerTransaction
	sinceArg    time.Time
	sinceResult *domain.LedgerTransaction
}

func (s *stubLedgerRepository) FindTransaction(ctx context.Context, userID string, reason domain.LedgerReason, referenceID string) (*domain.LedgerTransaction, error) {
	return s.byReference, nil
}

func (s *stubLedgerRepository) FindTransactionSince(ctx context.Context, userID string, reason domain.LedgerReason, since time.Time) (*domain.LedgerTransaction, error) {
	s.sinceArg = since
	return s.sinceResult, nil
}

func TestCheckAndReserveByReference(t *testing.T) {
	stub := &stubLedgerRepository{byReference: &domain.LedgerTransaction{ID: "tx-1"}}
	checker := NewLedgerIdempotencyChecker(stub)

	applied, err := checker.CheckAndReserve(context.Background(), domain.IdempotencyKey{
		UserID:      "user-1",
		Reason:      domain.ReasonAssessmentCoins,
		ReferenceID: "sess-1",
	})

	assert.NoError(t, err)
	assert.True(t, applied)
}

func TestCheckAndReserveNewReference(t *testing.T) {
	checker := NewLedgerIdempotencyChecker(&stubLedgerRepository{})

	applied, err := checker.CheckAndReserve(context.Background(), domain.IdempotencyKey{
		UserID:      "user-1",
		Reason:      domain.ReasonAssessmentCoins,
		ReferenceID: "sess-1",
	})

	assert.NoError(t, err)
	assert.False(t, applied)
}

func TestCheckAndReserveEmptyReferenceKeysOnCalendarDay(t *testing.T) {
	stub := &stubLedgerRepository{sinceResult: &domain.LedgerTransaction{ID: "tx-1"}}
	checker := NewLedgerIdempotencyChecker(stub)

	applied, err := checker.CheckAndReserve(context.Background(), domain.IdempotencyKey{
		UserID: "user-1",
		Reason: domain.ReasonAssessmentXP,
	})

	assert.NoError(t, err)
	assert.True(t, applied)

	// The lookback starts at local midnight, not 24 hours ago.
	now := time.Now()
	expected := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, expected, stub.sinceArg)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/repository/models"
	"utbk-prep/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxLedgerRepository implements domain.LedgerRepository using sqlx.
type sqlxLedgerRepository struct {
	db *sqlx.DB
}

// NewSQLXLedgerRepository creates a new instance of sqlxLedgerRepository.
func NewSQLXLedgerRepository(db *sqlx.DB) domain.LedgerRepository {
	return &sqlxLedgerRepository{db: db}
}

func toDomainLedgerTransaction(m *models.LedgerTransaction) *domain.LedgerTransaction {
	if m == nil {
		return nil
	}
	return &domain.LedgerTransaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Currency:    domain.Currency(m.Currency),
		Amount:      m.Amount,
		Reason:      domain.LedgerReason(m.Reason),
		ReferenceID: m.ReferenceID.String,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}

// FindTransaction returns the transaction for an idempotency key, or nil.
func (r *sqlxLedgerRepository) FindTransaction(ctx context.Context, userID string, reason domain.LedgerReason, referenceID string) (*domain.LedgerTransaction, error) {
	query := `SELECT id, user_id, currency, amount, reason, reference_id, metadata, created_at
	          FROM ledger_transactions
	          WHERE user_id = $1 AND reason = $2 AND reference_id = $3
	          ORDER BY created_at DESC
	          LIMIT 1`

	executor := GetExecutor(ctx, r.db)
	var m models.LedgerTransaction
	if err := executor.GetContext(ctx, &m, query, userID, string(reason), referenceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ledger transaction: %w", err)
	}
	return toDomainLedgerTransaction(&m), nil
}

// FindTransactionSince returns the most recent (user, reason) transaction
// created at or after since, or nil.
func (r *sqlxLedgerRepository) FindTransactionSince(ctx context.Context, userID string, reason domain.LedgerReason, since time.Time) (*domain.LedgerTransaction, error) {
	query := `SELECT id, user_id, currency, amount, reason, reference_id, metadata, created_at
	          FROM ledger_transactions
	          WHERE user_id = $1 AND reason = $2 AND created_at >= $3
	          ORDER BY created_at DESC
	          LIMIT 1`

	executor := GetExecutor(ctx, r.db)
	var m models.LedgerTransaction
	if err := executor.GetContext(ctx, &m, query, userID, string(reason), since); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ledger transaction since %s: %w", since, err)
	}
	return toDomainLedgerTransaction(&m), nil
}

// SaveTransaction appends one transaction row.
func (r *sqlxLedgerRepository) SaveTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	m := &models.LedgerTransaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Currency:    string(tx.Currency),
		Amount:      tx.Amount,
		Reason:      string(tx.Reason),
		ReferenceID: util.StringToNullString(tx.ReferenceID),
		Metadata:    models.MetadataMap(tx.Metadata),
		CreatedAt:   tx.CreatedAt,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `INSERT INTO ledger_transactions (id, user_id, currency, amount, reason, reference_id, metadata, created_at)
	          VALUES (:id, :user_id, :currency, :amount, :reason, :reference_id, :metadata, :created_at)`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to save ledger transaction: %w", err)
	}
	return nil
}

// GetWallet returns the user's wallet, or nil when the user has none yet.
func (r *sqlxLedgerRepository) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT user_id, coins, xp, updated_at FROM wallets WHERE user_id = $1`

	executor := GetExecutor(ctx, r.db)
	var m models.Wallet
	if err := executor.GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch wallet for user %s: %w", userID, err)
	}
	return &domain.Wallet{
		UserID:    m.UserID,
		Coins:     m.Coins,
		XP:        m.XP,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpsertWallet writes the wallet balance, creating the row on first use.
// Last write wins; see the ledger service for the documented race.
func (r *sqlxLedgerRepository) UpsertWallet(ctx context.Context, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, coins, xp, updated_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id) DO UPDATE SET coins = $2, xp = $3, updated_at = $4`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, wallet.UserID, wallet.Coins, wallet.XP, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert wallet for user %s: %w", wallet.UserID, err)
	}
	return nil
}

// GetTransactionsByUserID returns a page of the user's transaction log,
// newest first, along with the total count.
func (r *sqlxLedgerRepository) GetTransactionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, user_id, currency, amount, reason, reference_id, metadata, created_at
	          FROM ledger_transactions
	          WHERE user_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`

	var modelTxs []models.LedgerTransaction
	if err := r.db.SelectContext(ctx, &modelTxs, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch ledger transactions for user %s: %w", userID, err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM ledger_transactions WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger transactions for user %s: %w", userID, err)
	}

	txs := make([]*domain.LedgerTransaction, len(modelTxs))
	for i := range modelTxs {
		txs[i] = toDomainLedgerTransaction(&modelTxs[i])
	}
	return txs, total, nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func ledgerColumns() []string {
	return []string{"id", "user_id", "currency", "amount", "reason", "reference_id", "metadata", "created_at"}
}

func TestFindTransactionHit(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLedgerRepository(db)

	now := time.Now()
	txID := util.NewULID()
	rows := sqlmock.NewRows(ledgerColumns()).
		AddRow(txID, "user-1", "coins", int64(50), "assessment_coins", "sess-1", nil, now)

	mock.ExpectQuery(`FROM ledger_transactions\s+WHERE user_id = \$1 AND reason = \$2 AND reference_id = \$3`).
		WithArgs("user-1", "assessment_coins", "sess-1").
		WillReturnRows(rows)

	tx, err := repo.FindTransaction(context.Background(), "user-1", domain.ReasonAssessmentCoins, "sess-1")

	assert.NoError(t, err)
	assert.NotNil(t, tx)
	assert.Equal(t, txID, tx.ID)
	assert.Equal(t, int64(50), tx.Amount)
	assert.Equal(t, "sess-1", tx.ReferenceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTransactionMiss(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLedgerRepository(db)

	mock.ExpectQuery(`FROM ledger_transactions\s+WHERE user_id = \$1 AND reason = \$2 AND reference_id = \$3`).
		WithArgs("user-1", "assessment_coins", "sess-x").
		WillReturnRows(sqlmock.NewRows(ledgerColumns()))

	tx, err := repo.FindTransaction(context.Background(), "user-1", domain.ReasonAssessmentCoins, "sess-x")

	assert.NoError(t, err)
	assert.Nil(t, tx)
}

func TestGetWalletMissReturnsNil(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLedgerRepository(db)

	mock.ExpectQuery(`SELECT user_id, coins, xp, updated_at FROM wallets WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "coins", "xp", "updated_at"}))

	wallet, err := repo.GetWallet(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Nil(t, wallet)
}

func TestUpsertWallet(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLedgerRepository(db)

	mock.ExpectExec(`INSERT INTO wallets`).
		WithArgs("user-1", int64(150), int64(300), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertWallet(context.Background(), &domain.Wallet{UserID: "user-1", Coins: 150, XP: 300})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsByUserID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLedgerRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(ledgerColumns()).
		AddRow(util.NewULID(), "user-1", "xp", int64(150), "assessment_xp", nil, nil, now).
		AddRow(util.NewULID(), "user-1", "coins", int64(50), "assessment_coins", "sess-1", nil, now.Add(-time.Hour))

	mock.ExpectQuery(`FROM ledger_transactions\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("user-1", 10, 0).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ledger_transactions WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	txs, total, err := repo.GetTransactionsByUserID(context.Background(), "user-1", 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, txs, 2)
	assert.Equal(t, domain.CurrencyXP, txs[0].Currency)
	assert.Empty(t, txs[1].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}

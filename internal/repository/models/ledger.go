package models

import (
	"database/sql"
	"time"
)

// Wallet is the database model for the wallets table.
type Wallet struct {
	UserID    string    `db:"user_id"`
	Coins     int64     `db:"coins"`
	XP        int64     `db:"xp"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// LedgerTransaction is the database model for the ledger_transactions table.
type LedgerTransaction struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Currency    string         `db:"currency"`
	Amount      int64          `db:"amount"`
	Reason      string         `db:"reason"`
	ReferenceID sql.NullString `db:"reference_id"`
	Metadata    MetadataMap    `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (LedgerTransaction) TableName() string {
	return "ledger_transactions"
}

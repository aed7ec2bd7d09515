package dto

import "github.com/golang-jwt/jwt/v5"

// WalletResponse is the user's current balances.
type WalletResponse struct {
	Coins int64 `json:"coins"`
	XP    int64 `json:"xp"`
}

// LedgerTransactionResponse is one row of the user's transaction history.
type LedgerTransactionResponse struct {
	ID          string            `json:"id"`
	Currency    string            `json:"currency"`
	Amount      int64             `json:"amount"`
	Reason      string            `json:"reason"`
	ReferenceID string            `json:"reference_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

// LedgerHistoryResponse is a page of the user's transaction history.
type LedgerHistoryResponse struct {
	Transactions []LedgerTransactionResponse `json:"transactions"`
	Total        int                         `json:"total"`
	Limit        int                         `json:"limit"`
	Offset       int                         `json:"offset"`
}

// SpendCoinsRequest is the body of a wallet spend call. ReferenceID is the
// client's idempotency token for the purchase; repeating it applies nothing.
type SpendCoinsRequest struct {
	Amount      int64  `json:"amount"`
	ItemCode    string `json:"item_code"`
	ReferenceID string `json:"reference_id"`
}

// SpendCoinsResponse reports the applied debit. AmountSpent can be lower
// than requested when the balance floors at zero.
type SpendCoinsResponse struct {
	AmountSpent int64 `json:"amount_spent"`
	NewBalance  int64 `json:"new_balance"`
}

// AuthClaims are the JWT claims this service understands.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Pagination carries limit/offset query parameters.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

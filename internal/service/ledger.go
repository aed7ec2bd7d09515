package service

import (
	"context"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
	"utbk-prep/internal/util"
)

// LedgerService credits and debits user wallets. Every mutation is keyed by
// (user, reason, reference) and applied at most once per key.
//
// Known limitation: the idempotency check and the balance update are a
// read-check-then-write sequence. They run inside one database transaction
// per call, but no row locks are taken, so two concurrent calls for the
// same user can both pass the check and the later balance write wins. The
// IdempotencyChecker seam exists so a unique-constraint implementation can
// close this without touching call sites.
type LedgerService interface {
	Award(ctx context.Context, userID string, amount int64, currency domain.Currency, reason domain.LedgerReason, referenceID string, metadata map[string]string) (*domain.LedgerMutation, error)
	Spend(ctx context.Context, userID string, amount int64, currency domain.Currency, reason domain.LedgerReason, referenceID string, metadata map[string]string) (*domain.LedgerMutation, error)
	GetWallet(ctx context.Context, userID string) (*dto.WalletResponse, error)
	GetTransactionHistory(ctx context.Context, userID string, pagination dto.Pagination) (*dto.LedgerHistoryResponse, error)
}

type ledgerService struct {
	repo        domain.LedgerRepository
	idempotency domain.IdempotencyChecker
	txManager   domain.TransactionManager
}

// NewLedgerService creates a new instance of ledgerService.
func NewLedgerService(repo domain.LedgerRepository, idempotency domain.IdempotencyChecker, txManager domain.TransactionManager) LedgerService {
	return &ledgerService{
		repo:        repo,
		idempotency: idempotency,
		txManager:   txManager,
	}
}

// Award credits amount to the user's balance, capped at the currency cap.
// A repeated call with the same (user, reason, reference) applies nothing
// and reports the current balance.
func (s *ledgerService) Award(ctx context.Context, userID string, amount int64, currency domain.Currency, reason domain.LedgerReason, referenceID string, metadata map[string]string) (*domain.LedgerMutation, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if amount <= 0 {
		return nil, domain.NewInvalidInputError("award amount must be positive")
	}

	var result *domain.LedgerMutation
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		applied, err := s.idempotency.CheckAndReserve(txCtx, domain.IdempotencyKey{
			UserID:      userID,
			Reason:      reason,
			ReferenceID: referenceID,
		})
		if err != nil {
			return domain.NewPersistenceError("failed to check ledger idempotency", err)
		}

		wallet, err := s.loadWallet(txCtx, userID)
		if err != nil {
			return err
		}
		current := wallet.Balance(currency)

		if applied {
			result = &domain.LedgerMutation{NewBalance: current, AmountApplied: 0}
			return nil
		}

		newBalance := min(BalanceCapFor(currency), current+amount)
		delta := newBalance - current
		if delta != 0 {
			if err := s.appendTransaction(txCtx, userID, currency, delta, reason, referenceID, metadata); err != nil {
				return err
			}
			wallet.SetBalance(currency, newBalance)
			if err := s.repo.UpsertWallet(txCtx, wallet); err != nil {
				return domain.NewPersistenceError("failed to update wallet balance", err)
			}
		}
		result = &domain.LedgerMutation{NewBalance: newBalance, AmountApplied: delta}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Spend debits up to amount from the user's balance, never below zero. The
// applied amount is reported so callers can detect partial spends.
func (s *ledgerService) Spend(ctx context.Context, userID string, amount int64, currency domain.Currency, reason domain.LedgerReason, referenceID string, metadata map[string]string) (*domain.LedgerMutation, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if amount <= 0 {
		return nil, domain.NewInvalidInputError("spend amount must be positive")
	}

	var result *domain.LedgerMutation
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		applied, err := s.idempotency.CheckAndReserve(txCtx, domain.IdempotencyKey{
			UserID:      userID,
			Reason:      reason,
			ReferenceID: referenceID,
		})
		if err != nil {
			return domain.NewPersistenceError("failed to check ledger idempotency", err)
		}

		wallet, err := s.loadWallet(txCtx, userID)
		if err != nil {
			return err
		}
		current := wallet.Balance(currency)

		if applied {
			result = &domain.LedgerMutation{NewBalance: current, AmountApplied: 0}
			return nil
		}

		actualSpend := min(amount, current)
		if actualSpend > 0 {
			if err := s.appendTransaction(txCtx, userID, currency, -actualSpend, reason, referenceID, metadata); err != nil {
				return err
			}
			wallet.SetBalance(currency, current-actualSpend)
			if err := s.repo.UpsertWallet(txCtx, wallet); err != nil {
				return domain.NewPersistenceError("failed to update wallet balance", err)
			}
		}
		result = &domain.LedgerMutation{NewBalance: current - actualSpend, AmountApplied: actualSpend}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetWallet returns the user's balances, zero-valued for new users.
func (s *ledgerService) GetWallet(ctx context.Context, userID string) (*dto.WalletResponse, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load wallet", err)
	}
	if wallet == nil {
		return &dto.WalletResponse{}, nil
	}
	return &dto.WalletResponse{Coins: wallet.Coins, XP: wallet.XP}, nil
}

// GetTransactionHistory returns a page of the user's ledger log.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, userID string, pagination dto.Pagination) (*dto.LedgerHistoryResponse, error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Limit > 100 {
		pagination.Limit = 100
	}
	if pagination.Offset < 0 {
		pagination.Offset = 0
	}

	transactions, total, err := s.repo.GetTransactionsByUserID(ctx, userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, domain.NewInternalError("failed to load ledger transactions", err)
	}

	response := &dto.LedgerHistoryResponse{
		Transactions: make([]dto.LedgerTransactionResponse, len(transactions)),
		Total:        total,
		Limit:        pagination.Limit,
		Offset:       pagination.Offset,
	}
	for i, tx := range transactions {
		response.Transactions[i] = dto.LedgerTransactionResponse{
			ID:          tx.ID,
			Currency:    string(tx.Currency),
			Amount:      tx.Amount,
			Reason:      string(tx.Reason),
			ReferenceID: tx.ReferenceID,
			Metadata:    tx.Metadata,
			CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
		}
	}
	return response, nil
}

func (s *ledgerService) loadWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load wallet", err)
	}
	if wallet == nil {
		wallet = &domain.Wallet{UserID: userID}
	}
	return wallet, nil
}

func (s *ledgerService) appendTransaction(ctx context.Context, userID string, currency domain.Currency, delta int64, reason domain.LedgerReason, referenceID string, metadata map[string]string) error {
	tx := &domain.LedgerTransaction{
		ID:          util.NewULID(),
		UserID:      userID,
		Currency:    currency,
		Amount:      delta,
		Reason:      reason,
		ReferenceID: referenceID,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return domain.NewPersistenceError("failed to append ledger transaction", err)
	}
	return nil
}

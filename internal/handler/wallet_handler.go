package handler

import (
	"strconv"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/middleware"
	"utbk-prep/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WalletHandler handles wallet and ledger history HTTP requests
type WalletHandler struct {
	ledger service.LedgerService
}

// NewWalletHandler creates a new WalletHandler instance
func NewWalletHandler(ledger service.LedgerService) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// GetMyWallet godoc
// @Summary Get my wallet
// @Description Returns the authenticated user's coin and XP balances
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/wallet [get]
func (h *WalletHandler) GetMyWallet(c *fiber.Ctx) error {
	appLogger := logger.Get()
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		appLogger.Warn("User ID not found in context for GetMyWallet", zap.String("path", c.Path()))
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	wallet, err := h.ledger.GetWallet(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(wallet)
}

// GetMyTransactions godoc
// @Summary Get my ledger history
// @Description Returns a page of the authenticated user's ledger transactions
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.LedgerHistoryResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/wallet/transactions [get]
func (h *WalletHandler) GetMyTransactions(c *fiber.Ctx) error {
	appLogger := logger.Get()
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		appLogger.Warn("User ID not found in context for GetMyTransactions", zap.String("path", c.Path()))
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	history, err := h.ledger.GetTransactionHistory(c.Context(), userID, parsePagination(c))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

// SpendCoins godoc
// @Summary Spend coins
// @Description Debits coins from the authenticated user's wallet for a shop purchase
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.SpendCoinsRequest true "Spend details"
// @Success 200 {object} dto.SpendCoinsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/wallet/spend [post]
func (h *WalletHandler) SpendCoins(c *fiber.Ctx) error {
	appLogger := logger.Get()
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		appLogger.Warn("User ID not found in context for SpendCoins", zap.String("path", c.Path()))
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	req := new(dto.SpendCoinsRequest)
	if err := c.BodyParser(req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.Amount <= 0 {
		return domain.NewInvalidInputError("spend amount must be positive")
	}
	if req.ItemCode == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("item_code")}
	}

	mutation, err := h.ledger.Spend(c.Context(), userID, req.Amount, domain.CurrencyCoins,
		domain.ReasonShopPurchase, req.ReferenceID, map[string]string{"item": req.ItemCode})
	if err != nil {
		return err
	}

	appLogger.Info("Coins spent",
		zap.String("userID", userID),
		zap.String("item", req.ItemCode),
		zap.Int64("amount", mutation.AmountApplied))
	return c.JSON(dto.SpendCoinsResponse{AmountSpent: mutation.AmountApplied, NewBalance: mutation.NewBalance})
}

func parsePagination(c *fiber.Ctx) dto.Pagination {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return dto.Pagination{Limit: limit, Offset: offset}
}

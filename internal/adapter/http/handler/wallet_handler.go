package handler

import (
	"time"

	"voucher-settlement-gateway/internal/adapter/http/dto"
	"voucher-settlement-gateway/internal/adapter/http/middleware"
	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/pkg/apperror"
	"voucher-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet balance endpoints.
type WalletHandler struct {
	balanceSvc ports.BalanceService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(balanceSvc ports.BalanceService) *WalletHandler {
	return &WalletHandler{balanceSvc: balanceSvc}
}

// GetBalance handles GET /api/v1/wallets/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, movements, err := h.balanceSvc.GetBalance(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}

	response.OK(c, dto.WalletBalanceResponse{
		Balance:   wallet.Balance,
		Movements: items,
	})
}

// Topup handles POST /api/v1/wallets/topup.
func (h *WalletHandler) Topup(c *gin.Context) {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.balanceSvc.Credit(c.Request.Context(), userID.(uuid.UUID), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletResponse{Balance: wallet.Balance})
}

// Pay handles POST /api/v1/wallets/pay.
func (h *WalletHandler) Pay(c *gin.Context) {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.balanceSvc.Debit(c.Request.Context(), userID.(uuid.UUID), req.Amount, ports.PaymentContext{
		MerchantID: req.MerchantID,
		VoucherID:  req.VoucherID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletResponse{Balance: wallet.Balance})
}

func toMovementResponse(m domain.BalanceMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID.String(),
		MovementType:    string(m.MovementType),
		Amount:          m.Amount,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		MerchantID:      m.MerchantID,
		VoucherID:       m.VoucherID,
		CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

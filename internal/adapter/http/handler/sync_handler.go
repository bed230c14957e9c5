package handler

import (
	"voucher-settlement-gateway/internal/adapter/http/dto"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/pkg/apperror"
	"voucher-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// SyncHandler handles the voucher batch upload endpoint.
type SyncHandler struct {
	settlementSvc ports.SettlementService
	maxBatchSize  int
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(settlementSvc ports.SettlementService, maxBatchSize int) *SyncHandler {
	return &SyncHandler{
		settlementSvc: settlementSvc,
		maxBatchSize:  maxBatchSize,
	}
}

// Sync handles POST /api/v1/sync. The endpoint carries no session auth:
// every voucher authenticates itself through its payer signature. Voucher
// fields are deliberately not sanitized or escaped, the signature covers the
// exact bytes the payer produced.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if len(req.Vouchers) > h.maxBatchSize {
		response.Error(c, apperror.ErrBatchTooLarge(h.maxBatchSize))
		return
	}

	inputs := make([]ports.VoucherInput, 0, len(req.Vouchers))
	for _, v := range req.Vouchers {
		inputs = append(inputs, ports.VoucherInput{
			VoucherID:    v.VoucherID,
			MerchantID:   v.MerchantID,
			Amount:       v.Amount,
			CreatedAt:    v.CreatedAt,
			IssuedTo:     v.IssuedTo,
			Signature:    v.Signature,
			PublicKeyHex: v.PublicKeyHex,
		})
	}

	result, err := h.settlementSvc.SyncBatch(c.Request.Context(), ports.SyncBatchRequest{
		MerchantID: req.MerchantID,
		Vouchers:   inputs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	rejected := make([]dto.RejectedVoucher, 0, len(result.Rejected))
	for _, r := range result.Rejected {
		rejected = append(rejected, dto.RejectedVoucher{
			VoucherID: r.VoucherID,
			Reason:    r.Reason,
		})
	}

	response.OK(c, dto.SyncResponse{
		SyncedIDs:   result.SyncedIDs,
		Rejected:    rejected,
		TotalStored: result.TotalStored,
	})
}

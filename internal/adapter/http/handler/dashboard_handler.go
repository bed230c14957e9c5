package handler

import (
	"strconv"
	"time"

	"voucher-settlement-gateway/internal/adapter/http/dto"
	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles merchant-facing settlement reporting endpoints.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.reportingSvc.GetStats(c.Request.Context(), c.Query("merchantId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DashboardStatsResponse{
		TotalVouchers: stats.TotalVouchers,
		TotalAmount:   stats.TotalAmount,
		UniquePayers:  stats.UniquePayers,
	})
}

// ListVouchers handles GET /api/v1/vouchers.
func (h *DashboardHandler) ListVouchers(c *gin.Context) {
	params := ports.VoucherListParams{
		MerchantID: c.Query("merchantId"),
		Page:       parseIntQuery(c, "page", 1),
		PageSize:   parseIntQuery(c, "page_size", 20),
	}
	if issuedTo := c.Query("issuedTo"); issuedTo != "" {
		params.IssuedTo = &issuedTo
	}

	vouchers, total, err := h.reportingSvc.ListVouchers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		items = append(items, toVoucherResponse(v))
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}

	response.OK(c, dto.VoucherListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

func toVoucherResponse(v domain.Voucher) dto.VoucherResponse {
	return dto.VoucherResponse{
		VoucherID: v.VoucherID,
		Amount:    v.Amount,
		CreatedAt: v.CreatedAtRaw,
		IssuedTo:  v.IssuedTo,
		Status:    string(v.Status),
		SyncedAt:  v.SyncedAt.UTC().Format(time.RFC3339),
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

package service

import (
	"context"
	"fmt"

	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/pkg/apperror"
)

// ReportingServiceImpl implements ports.ReportingService. Read-only views
// over the settlement ledger; it never mutates vouchers or balances.
type ReportingServiceImpl struct {
	voucherRepo ports.VoucherRepository
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(voucherRepo ports.VoucherRepository) *ReportingServiceImpl {
	return &ReportingServiceImpl{voucherRepo: voucherRepo}
}

// ListVouchers returns a page of the merchant's settled vouchers plus the
// total match count.
func (s *ReportingServiceImpl) ListVouchers(ctx context.Context, params ports.VoucherListParams) ([]domain.Voucher, int64, error) {
	if params.MerchantID == "" {
		return nil, 0, apperror.ErrMissingMerchant()
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	vouchers, total, err := s.voucherRepo.ListByMerchant(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list vouchers: %w", err))
	}

	return vouchers, total, nil
}

// GetStats returns aggregate settlement figures for one merchant.
func (s *ReportingServiceImpl) GetStats(ctx context.Context, merchantID string) (*ports.SettlementStats, error) {
	if merchantID == "" {
		return nil, apperror.ErrMissingMerchant()
	}

	stats, err := s.voucherRepo.GetStats(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get stats: %w", err))
	}

	return stats, nil
}

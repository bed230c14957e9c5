package service

import (
	"context"
	"errors"
	"time"

	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// SettlementServiceImpl implements ports.SettlementService.
//
// Each voucher in a batch is settled independently: structural validation,
// key resolution, signature verification, then a single atomic
// uniqueness-enforcing insert into the ledger. One voucher's rejection never
// aborts or rolls back the others. Settlement records that a signed claim was
// redeemed; it never moves balance — the wallet deduction conceptually
// happened at voucher-issuance time.
type SettlementServiceImpl struct {
	voucherRepo ports.VoucherRepository
	resolver    ports.KeyResolver
	builder     ports.PayloadBuilder
	verifier    ports.SignatureVerifier
	dedupCache  ports.DedupCache
	dedupTTL    time.Duration
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. dedupCache may be
// nil; it is a fast-path optimization only, the ledger's uniqueness
// constraint stays authoritative.
func NewSettlementService(
	voucherRepo ports.VoucherRepository,
	resolver ports.KeyResolver,
	builder ports.PayloadBuilder,
	verifier ports.SignatureVerifier,
	dedupCache ports.DedupCache,
	dedupTTL time.Duration,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		voucherRepo: voucherRepo,
		resolver:    resolver,
		builder:     builder,
		verifier:    verifier,
		dedupCache:  dedupCache,
		dedupTTL:    dedupTTL,
		log:         log,
	}
}

// SyncBatch drives every voucher of the batch through settlement in input
// order, collecting partial-success results.
func (s *SettlementServiceImpl) SyncBatch(ctx context.Context, req ports.SyncBatchRequest) (*domain.BatchResult, error) {
	if req.MerchantID == "" {
		return nil, apperror.ErrMissingMerchant()
	}
	if len(req.Vouchers) == 0 {
		return nil, apperror.ErrEmptyBatch()
	}

	result := &domain.BatchResult{
		SyncedIDs: make([]string, 0, len(req.Vouchers)),
		Rejected:  make([]domain.RejectedVoucher, 0),
	}

	for _, in := range req.Vouchers {
		if reason, ok := s.settleOne(ctx, req.MerchantID, in); ok {
			result.SyncedIDs = append(result.SyncedIDs, in.VoucherID)
		} else {
			result.Rejected = append(result.Rejected, domain.RejectedVoucher{
				VoucherID: in.VoucherID,
				Reason:    reason,
			})
		}
	}

	total, err := s.voucherRepo.Count(ctx)
	if err != nil {
		// Decided outcomes must not be dropped because the count read failed.
		s.log.Warn().Err(err).Msg("ledger count unavailable after batch")
		total = -1
	}
	result.TotalStored = total

	s.log.Info().
		Str("merchant_id", req.MerchantID).
		Int("batch_size", len(req.Vouchers)).
		Int("synced", len(result.SyncedIDs)).
		Int("rejected", len(result.Rejected)).
		Msg("voucher batch settled")

	return result, nil
}

// settleOne runs the full settlement pipeline for a single voucher. Returns
// ("", true) on admission, or (reason, false) on rejection.
func (s *SettlementServiceImpl) settleOne(ctx context.Context, batchMerchantID string, in ports.VoucherInput) (string, bool) {
	// Step 1: structural validation. No ledger mutation on failure.
	if in.VoucherID == "" {
		return domain.RejectMissingVoucherID, false
	}
	if in.MerchantID != batchMerchantID {
		return domain.RejectMerchantMismatch, false
	}
	if in.Amount <= 0 {
		return domain.RejectInvalidAmount, false
	}
	if in.IssuedTo == "" {
		return domain.RejectMissingIssuedTo, false
	}
	if in.Signature == "" {
		return domain.RejectMissingSignature, false
	}

	// Step 2: resolve the public key.
	keyHex, found, err := s.resolver.Resolve(ctx, in.IssuedTo, in.PublicKeyHex)
	if err != nil {
		s.log.Error().Err(err).Str("voucher_id", in.VoucherID).Msg("key resolution failed")
		return domain.RejectVerificationError, false
	}
	if !found {
		return domain.RejectMissingPublicKey, false
	}

	// Step 3: rebuild the signed bytes and verify.
	payload := s.builder.Build(in.VoucherID, in.MerchantID, in.Amount, in.CreatedAt, in.IssuedTo)
	switch err := s.verifier.Verify(payload, keyHex, in.Signature); {
	case err == nil:
	case errors.Is(err, ErrMalformedPublicKey):
		return domain.RejectMalformedPublicKey, false
	case errors.Is(err, ErrMalformedSignature):
		return domain.RejectMalformedSignature, false
	case errors.Is(err, ErrSignatureMismatch):
		return domain.RejectBadSignature, false
	default:
		s.log.Error().Err(err).Str("voucher_id", in.VoucherID).Msg("verifier error")
		return domain.RejectVerificationError, false
	}

	// Named side effect of a successful verification: bind the key to a
	// previously unseen identity so later vouchers may omit the inline key.
	// This happens before admission on purpose: a verified voucher that turns
	// out to be a duplicate still proves the identity owns the key.
	if in.PublicKeyHex != "" {
		if err := s.resolver.Provision(ctx, in.IssuedTo, in.PublicKeyHex); err != nil {
			// Provisioning failure only delays identifier-only resolution
			// until a later batch; the voucher itself is unaffected.
			s.log.Warn().Err(err).Str("identity", in.IssuedTo).Msg("key provisioning failed")
		}
	}

	// Fast-path duplicate check. Advisory only: a cache error or a stale
	// answer just means the ledger insert decides.
	if s.dedupCache != nil {
		isNew, err := s.dedupCache.MarkIfNew(ctx, in.VoucherID, s.dedupTTL)
		if err != nil {
			s.log.Warn().Err(err).Str("voucher_id", in.VoucherID).Msg("dedup cache error, deferring to ledger")
		} else if !isNew {
			return domain.RejectDuplicateVoucher, false
		}
	}

	// Step 4: atomic check-and-insert on voucher_id. The uniqueness check and
	// the admission are one statement; two racing submissions produce exactly
	// one admission.
	voucher := &domain.Voucher{
		VoucherID:    in.VoucherID,
		MerchantID:   in.MerchantID,
		Amount:       in.Amount,
		CreatedAtRaw: in.CreatedAt,
		IssuedTo:     in.IssuedTo,
		PublicKeyHex: in.PublicKeyHex,
		Signature:    in.Signature,
		Status:       domain.VoucherStatusSynced,
		SyncedAt:     time.Now().UTC(),
	}
	admitted, err := s.voucherRepo.Insert(ctx, voucher)
	if err != nil {
		s.log.Error().Err(err).Str("voucher_id", in.VoucherID).Msg("ledger insert failed")
		if s.dedupCache != nil {
			// Unmark so a retry of this voucher is not misreported as a
			// duplicate by the fast path.
			if relErr := s.dedupCache.Release(ctx, in.VoucherID); relErr != nil {
				s.log.Warn().Err(relErr).Str("voucher_id", in.VoucherID).Msg("dedup release failed")
			}
		}
		return domain.RejectStoreUnavailable, false
	}
	if !admitted {
		return domain.RejectDuplicateVoucher, false
	}

	s.log.Debug().
		Str("voucher_id", in.VoucherID).
		Str("issued_to", in.IssuedTo).
		Int64("amount", in.Amount).
		Msg("voucher admitted")

	return "", true
}

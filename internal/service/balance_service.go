package service

import (
	"context"
	"fmt"
	"time"

	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"
	"voucher-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BalanceServiceImpl implements ports.BalanceService.
//
// Every mutation is a read-modify-write under a pessimistic row lock scoped
// to one identity's wallet: concurrent credits/debits on the same identity
// serialize, so no update is lost and two debits can never both pass the
// insufficiency check against a stale balance.
type BalanceServiceImpl struct {
	walletRepo   ports.WalletRepository
	movementRepo ports.MovementRepository
	transactor   ports.DBTransactor
	maxTopup     int64
	historyLimit int
	log          zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(
	walletRepo ports.WalletRepository,
	movementRepo ports.MovementRepository,
	transactor ports.DBTransactor,
	maxTopup int64,
	historyLimit int,
	log zerolog.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		walletRepo:   walletRepo,
		movementRepo: movementRepo,
		transactor:   transactor,
		maxTopup:     maxTopup,
		historyLimit: historyLimit,
		log:          log,
	}
}

// Credit adds funds to the identity's wallet. Amount must be positive and at
// most the configured per-operation ceiling; once validated a credit always
// succeeds.
func (s *BalanceServiceImpl) Credit(ctx context.Context, userID uuid.UUID, amount int64) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if amount > s.maxTopup {
		return nil, apperror.ErrTopupLimitExceeded(s.maxTopup)
	}

	wallet, err := s.mutate(ctx, userID, amount, domain.MovementTypeAdd, nil)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Int64("balance", wallet.Balance).
		Msg("wallet credited")

	return wallet, nil
}

// Debit removes funds from the identity's wallet, recording the payment
// context. Rejects with required/available amounts when the balance is
// insufficient; the balance is left untouched in that case.
func (s *BalanceServiceImpl) Debit(ctx context.Context, userID uuid.UUID, amount int64, pctx ports.PaymentContext) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.mutate(ctx, userID, -amount, domain.MovementTypePayment, &pctx)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Int64("balance", wallet.Balance).
		Str("merchant_id", pctx.MerchantID).
		Msg("wallet debited")

	return wallet, nil
}

// GetBalance returns the wallet and its most recent movements.
func (s *BalanceServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Wallet, []domain.BalanceMovement, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, nil, apperror.ErrNotFound("wallet")
	}

	movements, err := s.movementRepo.ListByWallet(ctx, wallet.ID, s.historyLimit)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("list movements: %w", err))
	}

	return wallet, movements, nil
}

// mutate applies a signed delta to the wallet balance and appends the
// movement row, all inside one database transaction with the wallet row
// locked.
func (s *BalanceServiceImpl) mutate(ctx context.Context, userID uuid.UUID, delta int64, mtype domain.MovementType, pctx *ports.PaymentContext) (*domain.Wallet, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	previous := wallet.Balance
	newBalance := previous + delta
	if newBalance < 0 {
		return nil, apperror.ErrInsufficientBalance(-delta, previous)
	}

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	now := time.Now().UTC()
	movement := &domain.BalanceMovement{
		ID:              uuid.New(),
		WalletID:        wallet.ID,
		MovementType:    mtype,
		Amount:          amount,
		PreviousBalance: previous,
		NewBalance:      newBalance,
		CreatedAt:       now,
	}
	if pctx != nil {
		if pctx.MerchantID != "" {
			m := pctx.MerchantID
			movement.MerchantID = &m
		}
		if pctx.VoucherID != "" {
			v := pctx.VoucherID
			movement.VoucherID = &v
		}
	}

	if err := s.movementRepo.Append(ctx, dbTx, movement); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append movement: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	wallet.Balance = newBalance
	wallet.UpdatedAt = now
	return wallet, nil
}

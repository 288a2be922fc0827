package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"matka/metrics"
	"matka/models"
	"matka/storage"
)

// Wallet handles deposits and withdrawals: a balance mutation paired
// with its ledger entry in one atomic scope.
type Wallet struct {
	store   storage.Store
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewWallet(store storage.Store, log *logrus.Logger, m *metrics.Metrics) *Wallet {
	return &Wallet{store: store, log: log, metrics: m}
}

func (w *Wallet) Deposit(ctx context.Context, userID uint, amount decimal.Decimal) (*models.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", ErrValidation)
	}

	var user *models.User
	err := w.store.Atomic(ctx, func(s storage.Store) error {
		u, err := s.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		u.Balance = u.Balance.Add(amount)
		if err := s.UpdateUserBalance(ctx, userID, u.Balance); err != nil {
			return err
		}
		trx := &models.Transaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TrxDeposit,
			Status:      models.TrxCompleted,
			Description: fmt.Sprintf("Deposit of %s", amount.String()),
			RefID:       uuid.NewString(),
		}
		if err := s.CreateTransaction(ctx, trx); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.metrics.WalletOps.WithLabelValues(models.TrxDeposit).Inc()
	w.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount.String()}).Info("deposit completed")
	return user, nil
}

func (w *Wallet) Withdraw(ctx context.Context, userID uint, amount decimal.Decimal) (*models.User, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", ErrValidation)
	}

	var user *models.User
	err := w.store.Atomic(ctx, func(s storage.Store) error {
		u, err := s.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		newBalance := u.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return ErrInsufficientBalance
		}
		u.Balance = newBalance
		if err := s.UpdateUserBalance(ctx, userID, newBalance); err != nil {
			return err
		}
		trx := &models.Transaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TrxWithdrawal,
			Status:      models.TrxCompleted,
			Description: fmt.Sprintf("Withdrawal of %s", amount.String()),
			RefID:       uuid.NewString(),
		}
		if err := s.CreateTransaction(ctx, trx); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.metrics.WalletOps.WithLabelValues(models.TrxWithdrawal).Inc()
	w.log.WithFields(logrus.Fields{"user_id": userID, "amount": amount.String()}).Info("withdrawal completed")
	return user, nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"matka/metrics"
	"matka/models"
	"matka/storage"
)

// Wager validates and places bets. The balance debit, the bet row and
// the ledger entry are written in a single atomic scope.
type Wager struct {
	store   storage.Store
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewWager(store storage.Store, log *logrus.Logger, m *metrics.Metrics) *Wager {
	return &Wager{store: store, log: log, metrics: m}
}

// UserBet is a bet enriched with its market and game type for display.
type UserBet struct {
	models.Bet
	Market   *models.Market   `json:"market"`
	GameType *models.GameType `json:"game_type"`
}

// PlaceBet places a wager for a user. The API boundary pre-checks the
// same conditions, but everything is re-validated here against a fresh
// read inside the transaction.
func (w *Wager) PlaceBet(ctx context.Context, userID, marketID, gameTypeID uint, betAmount decimal.Decimal, selection string) (*models.Bet, error) {
	if !betAmount.IsPositive() {
		return nil, fmt.Errorf("%w: bet amount must be positive", ErrValidation)
	}

	var bet *models.Bet
	err := w.store.Atomic(ctx, func(s storage.Store) error {
		market, err := s.GetMarket(ctx, marketID)
		if err != nil {
			return err
		}
		if !market.OpenForBetting() {
			return ErrMarketNotOpen
		}

		gameType, err := s.GetGameType(ctx, gameTypeID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrInvalidGameType
			}
			return err
		}
		if !market.OffersGameType(gameTypeID) {
			return ErrInvalidGameType
		}
		if rule, ok := RuleFor(gameType); ok && !rule.ValidSelection(selection) {
			return fmt.Errorf("%w: selection %q is not valid for %s", ErrValidation, selection, gameType.Name)
		}

		user, err := s.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		newBalance := user.Balance.Sub(betAmount)
		if newBalance.IsNegative() {
			return ErrInsufficientBalance
		}
		if err := s.UpdateUserBalance(ctx, userID, newBalance); err != nil {
			return err
		}

		b := &models.Bet{
			UserID:       userID,
			MarketID:     marketID,
			GameTypeID:   gameTypeID,
			BetAmount:    betAmount,
			Selection:    selection,
			Status:       models.BetPending,
			PotentialWin: betAmount.Mul(gameType.PayoutMultiplier),
			PlacedAt:     time.Now(),
		}
		if err := s.CreateBet(ctx, b); err != nil {
			return err
		}

		trx := &models.Transaction{
			UserID:      userID,
			Amount:      betAmount,
			Type:        models.TrxBet,
			Status:      models.TrxCompleted,
			Description: fmt.Sprintf("Bet placed on %d:%d - %s", marketID, gameTypeID, selection),
			BetID:       &b.ID,
			RefID:       uuid.NewString(),
		}
		if err := s.CreateTransaction(ctx, trx); err != nil {
			return err
		}

		bet = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.metrics.BetsPlaced.Inc()
	w.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"market_id": marketID,
		"bet_id":    bet.ID,
		"amount":    betAmount.String(),
	}).Info("bet placed")
	return bet, nil
}

// UserBets returns a user's bets newest first, enriched with market and
// game type details.
func (w *Wager) UserBets(ctx context.Context, userID uint) ([]UserBet, error) {
	bets, err := w.store.ListUserBets(ctx, userID)
	if err != nil {
		return nil, err
	}

	markets := make(map[uint]*models.Market)
	gameTypes := make(map[uint]*models.GameType)
	enriched := make([]UserBet, 0, len(bets))
	for _, b := range bets {
		market, ok := markets[b.MarketID]
		if !ok {
			market, _ = w.store.GetMarket(ctx, b.MarketID)
			markets[b.MarketID] = market
		}
		gameType, ok := gameTypes[b.GameTypeID]
		if !ok {
			gameType, _ = w.store.GetGameType(ctx, b.GameTypeID)
			gameTypes[b.GameTypeID] = gameType
		}
		enriched = append(enriched, UserBet{Bet: b, Market: market, GameType: gameType})
	}
	return enriched, nil
}

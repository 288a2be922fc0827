package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"matka/metrics"
	"matka/models"
	"matka/storage"
)

// Settlement declares market results and resolves pending bets. The
// closed -> resulted flip is status-guarded so two concurrent declares
// cannot both pass; the loser gets ErrMarketNotClosed.
type Settlement struct {
	store   storage.Store
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewSettlement(store storage.Store, log *logrus.Logger, m *metrics.Metrics) *Settlement {
	return &Settlement{store: store, log: log, metrics: m}
}

// DeclareResult records the outcome of a closed market and settles every
// pending bet on it. A bet that fails to settle is logged and skipped;
// the rest of the batch still runs. Re-running settlement cannot
// double-credit: only pending bets are selected and each status flip is
// guarded in the store.
func (e *Settlement) DeclareResult(ctx context.Context, marketID uint, result string, declaredBy uint) (*models.Market, error) {
	result = strings.TrimSpace(result)
	if result == "" {
		return nil, fmt.Errorf("%w: result is required", ErrValidation)
	}

	market, err := e.store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if market.Status != models.MarketClosed {
		return nil, ErrMarketNotClosed
	}

	now := time.Now()
	applied, err := e.store.MarkMarketResulted(ctx, marketID, result, declaredBy, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race against another declare.
		return nil, ErrMarketNotClosed
	}

	market.Status = models.MarketResulted
	market.Result = &result
	market.ResultDeclaredAt = &now
	market.ResultDeclaredBy = &declaredBy

	e.log.WithFields(logrus.Fields{
		"market_id":   marketID,
		"result":      result,
		"declared_by": declaredBy,
	}).Info("market result declared")

	e.settlePendingBets(ctx, marketID, result)
	return market, nil
}

func (e *Settlement) settlePendingBets(ctx context.Context, marketID uint, result string) {
	bets, err := e.store.ListMarketBetsByStatus(ctx, marketID, models.BetPending)
	if err != nil {
		e.log.WithError(err).WithField("market_id", marketID).Error("failed to load pending bets")
		return
	}

	gameTypes := make(map[uint]*models.GameType)
	won, lost := 0, 0
	for i := range bets {
		outcome, err := e.settleBet(ctx, &bets[i], result, gameTypes)
		if err != nil {
			e.metrics.SettlementErrors.Inc()
			e.log.WithError(err).WithFields(logrus.Fields{
				"market_id": marketID,
				"bet_id":    bets[i].ID,
			}).Error("failed to settle bet")
			continue
		}
		if outcome == models.BetWon {
			won++
		} else {
			lost++
		}
	}

	e.log.WithFields(logrus.Fields{
		"market_id": marketID,
		"won":       won,
		"lost":      lost,
		"total":     len(bets),
	}).Info("settlement completed")
}

// settleBet resolves a single bet in its own atomic scope, so one bad
// bet cannot roll back its siblings.
func (e *Settlement) settleBet(ctx context.Context, bet *models.Bet, result string, gameTypes map[uint]*models.GameType) (string, error) {
	gameType, ok := gameTypes[bet.GameTypeID]
	if !ok {
		var err error
		gameType, err = e.store.GetGameType(ctx, bet.GameTypeID)
		if err != nil {
			return "", err
		}
		gameTypes[bet.GameTypeID] = gameType
	}

	won := false
	if rule, ok := RuleFor(gameType); ok {
		won = rule.Wins(bet.Selection, result)
	} else {
		e.log.WithFields(logrus.Fields{
			"bet_id":        bet.ID,
			"game_category": gameType.GameCategory,
			"game_type":     gameType.Name,
		}).Warn("no win rule for game type, marking bet lost")
	}

	outcome := models.BetLost
	if won {
		outcome = models.BetWon
	}

	err := e.store.Atomic(ctx, func(s storage.Store) error {
		if !won {
			_, err := s.SettleBet(ctx, bet.ID, models.BetLost, decimal.Zero)
			return err
		}

		applied, err := s.SettleBet(ctx, bet.ID, models.BetWon, bet.PotentialWin)
		if err != nil || !applied {
			// Already settled by an earlier pass: no credit.
			return err
		}

		user, err := s.GetUserForUpdate(ctx, bet.UserID)
		if err != nil {
			return err
		}
		// Pays the PotentialWin frozen at placement, never a recomputed value.
		if err := s.UpdateUserBalance(ctx, bet.UserID, user.Balance.Add(bet.PotentialWin)); err != nil {
			return err
		}

		trx := &models.Transaction{
			UserID:      bet.UserID,
			Amount:      bet.PotentialWin,
			Type:        models.TrxWin,
			Status:      models.TrxCompleted,
			Description: fmt.Sprintf("Won bet on %d:%d - %s", bet.MarketID, bet.GameTypeID, bet.Selection),
			BetID:       &bet.ID,
			RefID:       uuid.NewString(),
		}
		return s.CreateTransaction(ctx, trx)
	})
	if err != nil {
		return "", err
	}

	e.metrics.BetsSettled.WithLabelValues(outcome).Inc()
	if won {
		f, _ := bet.PotentialWin.Float64()
		e.metrics.PayoutTotal.Add(f)
	}
	return outcome, nil
}

package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"matka/models"
	"matka/storage"
)

// Lifecycle enforces the market state machine. Transitions are strictly
// forward and one step at a time; resulted is reachable only through
// Settlement.DeclareResult.
type Lifecycle struct {
	store storage.Store
	log   *logrus.Logger
}

func NewLifecycle(store storage.Store, log *logrus.Logger) *Lifecycle {
	return &Lifecycle{store: store, log: log}
}

var nextStatus = map[string]string{
	models.MarketPending:     models.MarketOpen,
	models.MarketOpen:        models.MarketClosingSoon,
	models.MarketClosingSoon: models.MarketClosed,
}

// UpdateMarketStatus moves a market to newStatus if that is the next
// step in the lifecycle.
func (l *Lifecycle) UpdateMarketStatus(ctx context.Context, marketID uint, newStatus string) (*models.Market, error) {
	if !models.ValidMarketStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	market, err := l.store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if nextStatus[market.Status] != newStatus {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, market.Status, newStatus)
	}

	applied, err := l.store.SetMarketStatus(ctx, marketID, market.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if !applied {
		// The market moved under us; the requested transition no longer holds.
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, market.Status, newStatus)
	}

	l.log.WithFields(logrus.Fields{
		"market_id": marketID,
		"from":      market.Status,
		"to":        newStatus,
	}).Info("market status updated")

	market.Status = newStatus
	return market, nil
}

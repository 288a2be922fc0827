package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matka/models"
)

func TestUpdateMarketStatus_ForwardChain(t *testing.T) {
	f := newFixture(t)
	market := f.createMarket(t, models.MarketPending, f.jodi.ID)

	for _, step := range []string{
		models.MarketOpen,
		models.MarketClosingSoon,
		models.MarketClosed,
	} {
		updated, err := f.lifecycle.UpdateMarketStatus(f.ctx, market.ID, step)
		require.NoError(t, err)
		assert.Equal(t, step, updated.Status)
	}
}

func TestUpdateMarketStatus_RejectsSkips(t *testing.T) {
	f := newFixture(t)
	market := f.createMarket(t, models.MarketPending, f.jodi.ID)

	_, err := f.lifecycle.UpdateMarketStatus(f.ctx, market.ID, models.MarketClosed)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.lifecycle.UpdateMarketStatus(f.ctx, market.ID, models.MarketClosingSoon)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateMarketStatus_RejectsBackwardTransitions(t *testing.T) {
	f := newFixture(t)
	market := f.createMarket(t, models.MarketClosed, f.jodi.ID)

	for _, status := range []string{models.MarketPending, models.MarketOpen, models.MarketClosingSoon} {
		_, err := f.lifecycle.UpdateMarketStatus(f.ctx, market.ID, status)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition, "closed -> %s must be rejected", status)
	}
}

func TestUpdateMarketStatus_ResultedOnlyViaDeclare(t *testing.T) {
	f := newFixture(t)
	market := f.createMarket(t, models.MarketClosed, f.jodi.ID)

	_, err := f.lifecycle.UpdateMarketStatus(f.ctx, market.ID, models.MarketResulted)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateMarketStatus_ResultedIsTerminal(t *testing.T) {
	f := newFixture(t)
	market := f.createMarket(t, models.MarketClosed, f.jodi.ID)

	_, err := f.settlement.DeclareResult(f.ctx, market.ID, "47", 0)
	require.NoError(t, err)

	for _, status := range []string{models.MarketPending, models.MarketOpen, models.MarketClosed} {
		_, err := f.lifecycle.UpdateMarketStatus(f.ctx, market.ID, status)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	}
}

func TestUpdateMarketStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.UpdateMarketStatus(f.ctx, f.market.ID, "paused")
	assert.ErrorIs(t, err, ErrValidation)
}

package engine

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"matka/metrics"
	"matka/models"
	"matka/storage"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// fixture wires the engines against a fresh in-memory store seeded with
// one user (balance 1000), a Jodi game type (90x) and an open market
// offering it.
type fixture struct {
	ctx        context.Context
	store      *storage.Memory
	wager      *Wager
	settlement *Settlement
	lifecycle  *Lifecycle
	wallet     *Wallet

	user   *models.User
	jodi   *models.GameType
	market *models.Market
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()
	log := testLogger()
	m := testMetrics()

	f := &fixture{
		ctx:        ctx,
		store:      store,
		wager:      NewWager(store, log, m),
		settlement: NewSettlement(store, log, m),
		lifecycle:  NewLifecycle(store, log),
		wallet:     NewWallet(store, log, m),
	}

	f.user = f.createUser(t, "player", 1000)
	f.jodi = f.createGameType(t, models.SattamatkaJodi, models.CategorySattamatka, decimal.NewFromInt(90))
	f.market = f.createMarket(t, models.MarketOpen, f.jodi.ID)
	return f
}

func (f *fixture) createUser(t *testing.T, username string, balance int64) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Balance:  decimal.NewFromInt(balance),
		Role:     models.RoleUser,
	}
	require.NoError(t, f.store.CreateUser(f.ctx, user))
	return user
}

func (f *fixture) createGameType(t *testing.T, name, category string, multiplier decimal.Decimal) *models.GameType {
	t.Helper()
	gt := &models.GameType{
		Name:             name,
		GameCategory:     category,
		PayoutMultiplier: multiplier,
	}
	require.NoError(t, f.store.CreateGameType(f.ctx, gt))
	return gt
}

func (f *fixture) createMarket(t *testing.T, status string, gameTypeIDs ...uint) *models.Market {
	t.Helper()
	ids, err := json.Marshal(gameTypeIDs)
	require.NoError(t, err)
	market := &models.Market{
		Name:        "Test Market",
		Status:      status,
		OpeningTime: time.Now().Add(-time.Hour),
		ClosingTime: time.Now().Add(time.Hour),
		GameTypes:   ids,
	}
	require.NoError(t, f.store.CreateMarket(f.ctx, market))
	return market
}

func (f *fixture) balance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	user, err := f.store.GetUser(f.ctx, userID)
	require.NoError(t, err)
	return user.Balance
}

func (f *fixture) closeMarket(t *testing.T, marketID uint) {
	t.Helper()
	for _, step := range []string{models.MarketClosingSoon, models.MarketClosed} {
		_, err := f.lifecycle.UpdateMarketStatus(f.ctx, marketID, step)
		require.NoError(t, err)
	}
}

func requireDecimalEqual(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	require.True(t, actual.Equal(decimal.NewFromInt(expected)),
		"expected %d, got %s", expected, actual.String())
}

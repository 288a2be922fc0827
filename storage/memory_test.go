package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matka/models"
)

func newUser(t *testing.T, store *Memory, balance int64) *models.User {
	t.Helper()
	user := &models.User{Username: "u", Balance: decimal.NewFromInt(balance)}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestMemory_AtomicCommits(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	user := newUser(t, store, 100)

	err := store.Atomic(ctx, func(s Store) error {
		if err := s.UpdateUserBalance(ctx, user.ID, decimal.NewFromInt(50)); err != nil {
			return err
		}
		return s.CreateTransaction(ctx, &models.Transaction{
			UserID: user.ID,
			Amount: decimal.NewFromInt(50),
			Type:   models.TrxWithdrawal,
			Status: models.TrxCompleted,
			RefID:  "ref-1",
		})
	})
	require.NoError(t, err)

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)))

	trxs, err := store.ListUserTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, trxs, 1)
}

func TestMemory_AtomicRollsBackAllWrites(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	user := newUser(t, store, 100)
	boom := errors.New("boom")

	err := store.Atomic(ctx, func(s Store) error {
		if err := s.UpdateUserBalance(ctx, user.ID, decimal.Zero); err != nil {
			return err
		}
		if err := s.CreateBet(ctx, &models.Bet{UserID: user.ID}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom, "fn error propagates unchanged")

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)), "balance write rolled back")

	bets, err := store.ListBets(ctx)
	require.NoError(t, err)
	assert.Empty(t, bets, "bet insert rolled back")
}

func TestMemory_SettleBetOnlyOnce(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	bet := &models.Bet{UserID: 1, Status: models.BetPending}
	require.NoError(t, store.CreateBet(ctx, bet))

	applied, err := store.SettleBet(ctx, bet.ID, models.BetWon, decimal.NewFromInt(90))
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.SettleBet(ctx, bet.ID, models.BetLost, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, applied, "already-settled bet must not flip again")

	got, err := store.GetBet(ctx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetWon, got.Status)
	require.NotNil(t, got.WinAmount)
	assert.True(t, got.WinAmount.Equal(decimal.NewFromInt(90)))
}

func TestMemory_SetMarketStatusGuard(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	market := &models.Market{Name: "m", Status: models.MarketOpen}
	require.NoError(t, store.CreateMarket(ctx, market))

	applied, err := store.SetMarketStatus(ctx, market.ID, models.MarketPending, models.MarketOpen)
	require.NoError(t, err)
	assert.False(t, applied, "wrong expected status")

	applied, err = store.SetMarketStatus(ctx, market.ID, models.MarketOpen, models.MarketClosingSoon)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestMemory_MarkMarketResultedRequiresClosed(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	market := &models.Market{Name: "m", Status: models.MarketOpen}
	require.NoError(t, store.CreateMarket(ctx, market))

	applied, err := store.MarkMarketResulted(ctx, market.ID, "47", 1, time.Now())
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = store.SetMarketStatus(ctx, market.ID, models.MarketOpen, models.MarketClosed)
	require.NoError(t, err)

	applied, err = store.MarkMarketResulted(ctx, market.ID, "47", 1, time.Now())
	require.NoError(t, err)
	assert.True(t, applied)

	// The flip is one-way: a second declare finds the market resulted.
	applied, err = store.MarkMarketResulted(ctx, market.ID, "48", 2, time.Now())
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := store.GetMarket(ctx, market.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.Equal(t, "47", *got.Result)
}

func TestMemory_NotFound(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.GetUser(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetMarket(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetGameType(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetBet(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.UpdateUserBalance(ctx, 42, decimal.Zero), ErrNotFound)
}

func TestMemory_ListUserTransactionsNewestFirst(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	user := newUser(t, store, 100)

	for _, ref := range []string{"a", "b", "c"} {
		require.NoError(t, store.CreateTransaction(ctx, &models.Transaction{
			UserID: user.ID,
			Type:   models.TrxDeposit,
			Status: models.TrxCompleted,
			RefID:  ref,
		}))
	}

	trxs, err := store.ListUserTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, trxs, 3)
	assert.Equal(t, "c", trxs[0].RefID)
	assert.Equal(t, "a", trxs[2].RefID)
}

package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matka/models"
	"matka/storage"
)

func TestDeclareResult_EndToEnd(t *testing.T) {
	f := newFixture(t)

	bet, err := f.wager.PlaceBet(f.ctx, f.user.ID, f.market.ID, f.jodi.ID, decimal.NewFromInt(100), "47")
	require.NoError(t, err)
	requireDecimalEqual(t, 900, f.balance(t, f.user.ID))

	f.closeMarket(t, f.market.ID)

	admin := f.createUser(t, "admin", 0)
	market, err := f.settlement.DeclareResult(f.ctx, f.market.ID, "47", admin.ID)
	require.NoError(t, err)

	assert.Equal(t, models.MarketResulted, market.Status)
	require.NotNil(t, market.Result)
	assert.Equal(t, "47", *market.Result)
	require.NotNil(t, market.ResultDeclaredBy)
	assert.Equal(t, admin.ID, *market.ResultDeclaredBy)
	assert.NotNil(t, market.ResultDeclaredAt)

	settled, err := f.store.GetBet(f.ctx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetWon, settled.Status)
	require.NotNil(t, settled.WinAmount)
	requireDecimalEqual(t, 9000, *settled.WinAmount)

	requireDecimalEqual(t, 9900, f.balance(t, f.user.ID))

	trxs, err := f.store.ListUserTransactions(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, trxs, 2)
	// Newest first: the win credit follows the bet debit.
	assert.Equal(t, models.TrxWin, trxs[0].Type)
	requireDecimalEqual(t, 9000, trxs[0].Amount)
	require.NotNil(t, trxs[0].BetID)
	assert.Equal(t, bet.ID, *trxs[0].BetID)
	assert.Equal(t, models.TrxBet, trxs[1].Type)
}

func TestDeclareResult_LosingBetGetsNoTransaction(t *testing.T) {
	f := newFixture(t)

	bet, err := f.wager.PlaceBet(f.ctx, f.user.ID, f.market.ID, f.jodi.ID, decimal.NewFromInt(100), "47")
	require.NoError(t, err)

	f.closeMarket(t, f.market.ID)
	_, err = f.settlement.DeclareResult(f.ctx, f.market.ID, "48", 0)
	require.NoError(t, err)

	settled, err := f.store.GetBet(f.ctx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetLost, settled.Status)
	require.NotNil(t, settled.WinAmount)
	assert.True(t, settled.WinAmount.IsZero())

	// The placement debit stands; no further ledger entry for a loss.
	requireDecimalEqual(t, 900, f.balance(t, f.user.ID))
	trxs, err := f.store.ListUserTransactions(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, trxs, 1)
	assert.Equal(t, models.TrxBet, trxs[0].Type)
}

func TestDeclareResult_RequiresClosedMarket(t *testing.T) {
	f := newFixture(t)

	_, err := f.settlement.DeclareResult(f.ctx, f.market.ID, "47", 0)
	assert.ErrorIs(t, err, ErrMarketNotClosed, "open market cannot be resulted")

	pending := f.createMarket(t, models.MarketPending, f.jodi.ID)
	_, err = f.settlement.DeclareResult(f.ctx, pending.ID, "47", 0)
	assert.ErrorIs(t, err, ErrMarketNotClosed)
}

func TestDeclareResult_SecondDeclareIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.wager.PlaceBet(f.ctx, f.user.ID, f.market.ID, f.jodi.ID, decimal.NewFromInt(100), "47")
	require.NoError(t, err)
	f.closeMarket(t, f.market.ID)

	_, err = f.settlement.DeclareResult(f.ctx, f.market.ID, "47", 0)
	require.NoError(t, err)
	requireDecimalEqual(t, 9900, f.balance(t, f.user.ID))

	_, err = f.settlement.DeclareResult(f.ctx, f.market.ID, "47", 0)
	assert.ErrorIs(t, err, ErrMarketNotClosed)

	// No double credit, no extra ledger entries.
	requireDecimalEqual(t, 9900, f.balance(t, f.user.ID))
	trxs, err := f.store.ListUserTransactions(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, trxs, 2)
}

func TestDeclareResult_RejectsEmptyResult(t *testing.T) {
	f := newFixture(t)
	f.closeMarket(t, f.market.ID)

	_, err := f.settlement.DeclareResult(f.ctx, f.market.ID, "   ", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

// inflatedMultiplier returns a doctored game type on every read,
// simulating a payout multiplier change after placement.
type inflatedMultiplier struct {
	storage.Store
}

func (s *inflatedMultiplier) Atomic(ctx context.Context, fn func(storage.Store) error) error {
	return s.Store.Atomic(ctx, func(inner storage.Store) error {
		return fn(&inflatedMultiplier{Store: inner})
	})
}

func (s *inflatedMultiplier) GetGameType(ctx context.Context, id uint) (*models.GameType, error) {
	gt, err := s.Store.GetGameType(ctx, id)
	if err != nil {
		return nil, err
	}
	gt.PayoutMultiplier = decimal.NewFromInt(1000)
	return gt, nil
}

func TestDeclareResult_PotentialWinFrozenAtPlacement(t *testing.T) {
	f := newFixture(t)

	bet, err := f.wager.PlaceBet(f.ctx, f.user.ID, f.market.ID, f.jodi.ID, decimal.NewFromInt(100), "47")
	require.NoError(t, err)
	requireDecimalEqual(t, 9000, bet.PotentialWin)

	f.closeMarket(t, f.market.ID)

	// Settle through a store that reports a multiplier of 1000x.
	settlement := NewSettlement(&inflatedMultiplier{Store: f.store}, testLogger(), testMetrics())
	_, err = settlement.DeclareResult(f.ctx, f.market.ID, "47", 0)
	require.NoError(t, err)

	settled, err := f.store.GetBet(f.ctx, bet.ID)
	require.NoError(t, err)
	require.NotNil(t, settled.WinAmount)
	requireDecimalEqual(t, 9000, *settled.WinAmount)
	requireDecimalEqual(t, 9900, f.balance(t, f.user.ID))
}

// settleFailsFor injects a storage error when settling one specific bet.
type settleFailsFor struct {
	storage.Store
	betID uint
}

func (s *settleFailsFor) Atomic(ctx context.Context, fn func(storage.Store) error) error {
	return s.Store.Atomic(ctx, func(inner storage.Store) error {
		return fn(&settleFailsFor{Store: inner, betID: s.betID})
	})
}

func (s *settleFailsFor) SettleBet(ctx context.Context, betID uint, status string, winAmount decimal.Decimal) (bool, error) {
	if betID == s.betID {
		return false, errInjected
	}
	return s.Store.SettleBet(ctx, betID, status, winAmount)
}

func TestDeclareResult_FaultOnOneBetDoesNotAbortOthers(t *testing.T) {
	f := newFixture(t)
	other := f.createUser(t, "other", 1000)

	badBet, err := f.wager.PlaceBet(f.ctx, f.user.ID, f.market.ID, f.jodi.ID, decimal.NewFromInt(100), "47")
	require.NoError(t, err)
	goodBet, err := f.wager.PlaceBet(f.ctx, other.ID, f.market.ID, f.jodi.ID, decimal.NewFromInt(50), "47")
	require.NoError(t, err)

	f.closeMarket(t, f.market.ID)

	settlement := NewSettlement(&settleFailsFor{Store: f.store, betID: badBet.ID}, testLogger(), testMetrics())
	_, err = settlement.DeclareResult(f.ctx, f.market.ID, "47", 0)
	require.NoError(t, err, "settlement run survives a per-bet fault")

	// The failed bet stays pending, the other one settled and paid out.
	stuck, err := f.store.GetBet(f.ctx, badBet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetPending, stuck.Status)

	settled, err := f.store.GetBet(f.ctx, goodBet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetWon, settled.Status)
	requireDecimalEqual(t, 5450, f.balance(t, other.ID))
}

func TestBalanceConservation(t *testing.T) {
	f := newFixture(t)
	hurf := f.createGameType(t, models.SattamatkaHurf, models.CategorySattamatka, decimal.NewFromInt(9))
	market := f.createMarket(t, models.MarketOpen, f.jodi.ID, hurf.ID)

	_, err := f.wager.PlaceBet(f.ctx, f.user.ID, market.ID, f.jodi.ID, decimal.NewFromInt(100), "48")
	require.NoError(t, err)
	_, err = f.wager.PlaceBet(f.ctx, f.user.ID, market.ID, hurf.ID, decimal.NewFromInt(200), "7")
	require.NoError(t, err)

	f.closeMarket(t, market.ID)
	_, err = f.settlement.DeclareResult(f.ctx, market.ID, "47", 0)
	require.NoError(t, err)

	// Replay the ledger: the final balance must equal the initial 1000
	// plus every credit minus every debit.
	trxs, err := f.store.ListUserTransactions(f.ctx, f.user.ID)
	require.NoError(t, err)

	expected := decimal.NewFromInt(1000)
	for _, trx := range trxs {
		switch trx.Type {
		case models.TrxWin, models.TrxDeposit:
			expected = expected.Add(trx.Amount)
		case models.TrxBet, models.TrxWithdrawal:
			expected = expected.Sub(trx.Amount)
		}
	}

	balance := f.balance(t, f.user.ID)
	assert.True(t, balance.Equal(expected), "balance %s does not reconcile with ledger %s", balance, expected)
	// Jodi on 48 lost, Hurf on 7 won 1800: 1000 - 100 - 200 + 1800.
	requireDecimalEqual(t, 2500, balance)
	assert.False(t, balance.IsNegative())
}

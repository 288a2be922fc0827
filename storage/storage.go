package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"matka/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the ledger store: keyed access to users, markets, game types,
// bets and transactions, plus the Atomic primitive that commits every
// write inside fn together or not at all.
//
// Two implementations exist: a GORM-backed durable store and an
// in-memory store used by unit tests and dev mode.
type Store interface {
	// Atomic runs fn against a transactional view of the store. If fn
	// returns an error, every write made through that view is discarded
	// and the error is returned unchanged.
	Atomic(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	// GetUserForUpdate reads a user while holding a row lock for the
	// duration of the enclosing Atomic scope. Balance mutations must go
	// through this read.
	GetUserForUpdate(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserBalance(ctx context.Context, id uint, balance decimal.Decimal) error
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateMarket(ctx context.Context, market *models.Market) error
	GetMarket(ctx context.Context, id uint) (*models.Market, error)
	ListMarkets(ctx context.Context) ([]models.Market, error)
	ListMarketsByStatus(ctx context.Context, statuses ...string) ([]models.Market, error)
	// SetMarketStatus flips a market from one status to another and
	// reports whether the update applied (false when the market was no
	// longer in the expected status).
	SetMarketStatus(ctx context.Context, id uint, from, to string) (bool, error)
	// MarkMarketResulted performs the one-way closed -> resulted flip,
	// recording the result and who declared it. Returns false when the
	// market was not in closed status, which makes concurrent declares
	// mutually exclusive.
	MarkMarketResulted(ctx context.Context, id uint, result string, declaredBy uint, at time.Time) (bool, error)

	CreateGameType(ctx context.Context, gt *models.GameType) error
	GetGameType(ctx context.Context, id uint) (*models.GameType, error)
	ListGameTypes(ctx context.Context) ([]models.GameType, error)
	GetGameTypesByID(ctx context.Context, ids []uint) ([]models.GameType, error)

	CreateBet(ctx context.Context, bet *models.Bet) error
	GetBet(ctx context.Context, id uint) (*models.Bet, error)
	ListMarketBetsByStatus(ctx context.Context, marketID uint, status string) ([]models.Bet, error)
	ListUserBets(ctx context.Context, userID uint) ([]models.Bet, error)
	ListBets(ctx context.Context) ([]models.Bet, error)
	// SettleBet moves a bet out of pending, setting its final status and
	// win amount. Returns false when the bet was already settled, so a
	// second settlement pass is a no-op per bet.
	SettleBet(ctx context.Context, betID uint, status string, winAmount decimal.Decimal) (bool, error)

	CreateTransaction(ctx context.Context, trx *models.Transaction) error
	ListUserTransactions(ctx context.Context, userID uint) ([]models.Transaction, error)
}

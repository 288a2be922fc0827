package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"matka/models"
)

// Gorm is the durable Store implementation backed by a relational
// database through GORM.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- users ---

func (s *Gorm) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Gorm) GetUserForUpdate(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Gorm) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Gorm) UpdateUserBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// --- markets ---

func (s *Gorm) CreateMarket(ctx context.Context, market *models.Market) error {
	return s.db.WithContext(ctx).Create(market).Error
}

func (s *Gorm) GetMarket(ctx context.Context, id uint) (*models.Market, error) {
	var market models.Market
	if err := s.db.WithContext(ctx).First(&market, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &market, nil
}

func (s *Gorm) ListMarkets(ctx context.Context) ([]models.Market, error) {
	var markets []models.Market
	if err := s.db.WithContext(ctx).Order("opening_time DESC").Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *Gorm) ListMarketsByStatus(ctx context.Context, statuses ...string) ([]models.Market, error) {
	var markets []models.Market
	err := s.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("closing_time ASC").
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *Gorm) SetMarketStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Market{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Gorm) MarkMarketResulted(ctx context.Context, id uint, result string, declaredBy uint, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Market{}).
		Where("id = ? AND status = ?", id, models.MarketClosed).
		Updates(map[string]any{
			"status":             models.MarketResulted,
			"result":             result,
			"result_declared_at": at,
			"result_declared_by": declaredBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --- game types ---

func (s *Gorm) CreateGameType(ctx context.Context, gt *models.GameType) error {
	return s.db.WithContext(ctx).Create(gt).Error
}

func (s *Gorm) GetGameType(ctx context.Context, id uint) (*models.GameType, error) {
	var gt models.GameType
	if err := s.db.WithContext(ctx).First(&gt, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &gt, nil
}

func (s *Gorm) ListGameTypes(ctx context.Context) ([]models.GameType, error) {
	var gts []models.GameType
	if err := s.db.WithContext(ctx).Find(&gts).Error; err != nil {
		return nil, err
	}
	return gts, nil
}

func (s *Gorm) GetGameTypesByID(ctx context.Context, ids []uint) ([]models.GameType, error) {
	var gts []models.GameType
	if len(ids) == 0 {
		return gts, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&gts).Error; err != nil {
		return nil, err
	}
	return gts, nil
}

// --- bets ---

func (s *Gorm) CreateBet(ctx context.Context, bet *models.Bet) error {
	return s.db.WithContext(ctx).Create(bet).Error
}

func (s *Gorm) GetBet(ctx context.Context, id uint) (*models.Bet, error) {
	var bet models.Bet
	if err := s.db.WithContext(ctx).First(&bet, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &bet, nil
}

func (s *Gorm) ListMarketBetsByStatus(ctx context.Context, marketID uint, status string) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.WithContext(ctx).
		Where("market_id = ? AND status = ?", marketID, status).
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

func (s *Gorm) ListUserBets(ctx context.Context, userID uint) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

func (s *Gorm) ListBets(ctx context.Context) ([]models.Bet, error) {
	var bets []models.Bet
	if err := s.db.WithContext(ctx).Order("placed_at DESC").Find(&bets).Error; err != nil {
		return nil, err
	}
	return bets, nil
}

func (s *Gorm) SettleBet(ctx context.Context, betID uint, status string, winAmount decimal.Decimal) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Bet{}).
		Where("id = ? AND status = ?", betID, models.BetPending).
		Updates(map[string]any{
			"status":     status,
			"win_amount": winAmount,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --- transactions ---

func (s *Gorm) CreateTransaction(ctx context.Context, trx *models.Transaction) error {
	return s.db.WithContext(ctx).Create(trx).Error
}

func (s *Gorm) ListUserTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var trxs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&trxs).Error
	if err != nil {
		return nil, err
	}
	return trxs, nil
}

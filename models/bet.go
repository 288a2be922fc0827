package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BetPending = "pending"
	BetWon     = "won"
	BetLost    = "lost"
)

type Bet struct {
	gorm.Model

	UserID     uint            `gorm:"index" json:"user_id"`
	MarketID   uint            `gorm:"index" json:"market_id"`
	GameTypeID uint            `gorm:"index" json:"game_type_id"`
	BetAmount  decimal.Decimal `gorm:"type:numeric(10,2)" json:"bet_amount"`
	Selection  string          `gorm:"size:64" json:"selection"`
	Status     string          `gorm:"size:16;index;default:pending" json:"status"`

	// PotentialWin is frozen at placement time; settlement pays this
	// value regardless of later payout multiplier changes.
	PotentialWin decimal.Decimal  `gorm:"type:numeric(10,2)" json:"potential_win"`
	WinAmount    *decimal.Decimal `gorm:"type:numeric(10,2)" json:"win_amount"`
	PlacedAt     time.Time        `gorm:"index" json:"placed_at"`
}

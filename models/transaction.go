package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TrxBet        = "bet"
	TrxWin        = "win"
	TrxDeposit    = "deposit"
	TrxWithdrawal = "withdrawal"
)

const (
	TrxCompleted = "completed"
	TrxPending   = "pending"
	TrxFailed    = "failed"
)

// Transaction is an append-only ledger entry. Entries are never updated
// or deleted; balances must reconcile against this trail.
type Transaction struct {
	gorm.Model

	UserID      uint            `gorm:"index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	Type        string          `gorm:"size:16;index" json:"type"`
	Status      string          `gorm:"size:16" json:"status"`
	Description string          `gorm:"size:255" json:"description"`
	BetID       *uint           `gorm:"index" json:"bet_id"`
	RefID       string          `gorm:"size:64;uniqueIndex" json:"ref_id"`
}

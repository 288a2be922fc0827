package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Market status lifecycle: pending -> open -> closing_soon -> closed -> resulted.
const (
	MarketPending     = "pending"
	MarketOpen        = "open"
	MarketClosingSoon = "closing_soon"
	MarketClosed      = "closed"
	MarketResulted    = "resulted"
)

type Market struct {
	gorm.Model

	Name        string         `gorm:"size:128" json:"name"`
	Description string         `gorm:"size:255" json:"description"`
	BannerImage string         `gorm:"size:255" json:"banner_image"`
	Status      string         `gorm:"size:16;index;default:pending" json:"status"`
	OpeningTime time.Time      `json:"opening_time"`
	ClosingTime time.Time      `json:"closing_time"`
	ResultTime  *time.Time     `json:"result_time"`
	CreatedBy   uint           `json:"created_by"`
	GameTypes   datatypes.JSON `json:"game_types"`

	Result           *string    `gorm:"size:64" json:"result"`
	ResultDeclaredAt *time.Time `json:"result_declared_at"`
	ResultDeclaredBy *uint      `json:"result_declared_by"`
}

// GameTypeIDs decodes the JSON array of game type ids offered by this market.
func (m *Market) GameTypeIDs() []uint {
	var ids []uint
	if len(m.GameTypes) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.GameTypes, &ids); err != nil {
		return nil
	}
	return ids
}

func (m *Market) OffersGameType(id uint) bool {
	for _, gid := range m.GameTypeIDs() {
		if gid == id {
			return true
		}
	}
	return false
}

// OpenForBetting reports whether bets may be placed right now.
func (m *Market) OpenForBetting() bool {
	return m.Status == MarketOpen || m.Status == MarketClosingSoon
}

func ValidMarketStatus(s string) bool {
	switch s {
	case MarketPending, MarketOpen, MarketClosingSoon, MarketClosed, MarketResulted:
		return true
	}
	return false
}

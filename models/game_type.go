package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CategorySattamatka = "sattamatka"
	CategoryCoinToss   = "cointoss"
	CategoryTeamMatch  = "teamMatch"
)

// Sattamatka variants are distinguished by the game type name.
const (
	SattamatkaJodi    = "Jodi"
	SattamatkaHurf    = "Hurf"
	SattamatkaCross   = "Cross"
	SattamatkaOddEven = "Odd-Even"
)

type GameType struct {
	gorm.Model

	Name             string          `gorm:"size:64" json:"name"`
	Description      string          `gorm:"size:255" json:"description"`
	PayoutMultiplier decimal.Decimal `gorm:"type:numeric(10,2)" json:"payout_multiplier"`
	GameCategory     string          `gorm:"size:32;index" json:"game_category"`

	// Team metadata, set only when GameCategory is teamMatch.
	Team1        *string `gorm:"size:64" json:"team1"`
	Team2        *string `gorm:"size:64" json:"team2"`
	TeamLogoURL1 *string `gorm:"size:255" json:"team_logo_url1"`
	TeamLogoURL2 *string `gorm:"size:255" json:"team_logo_url2"`
}

package database

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"matka/models"
	"matka/storage"
)

func strptr(s string) *string { return &s }

// EnsureDefaults creates the standard game types and a bootstrap admin
// user when the store is empty.
func EnsureDefaults(ctx context.Context, store storage.Store, log *logrus.Logger) error {
	gameTypes, err := store.ListGameTypes(ctx)
	if err != nil {
		return err
	}
	if len(gameTypes) == 0 {
		defaults := []models.GameType{
			{
				Name:             models.SattamatkaJodi,
				Description:      "Choose a two-digit number (00-99). Win if your number matches the result.",
				PayoutMultiplier: decimal.NewFromInt(90),
				GameCategory:     models.CategorySattamatka,
			},
			{
				Name:             models.SattamatkaHurf,
				Description:      "Choose a single digit (0-9). Win if your digit appears in the result.",
				PayoutMultiplier: decimal.NewFromInt(9),
				GameCategory:     models.CategorySattamatka,
			},
			{
				Name:             models.SattamatkaCross,
				Description:      "Choose two digits. Win if both digits appear in the result in any order.",
				PayoutMultiplier: decimal.NewFromInt(15),
				GameCategory:     models.CategorySattamatka,
			},
			{
				Name:             models.SattamatkaOddEven,
				Description:      "Choose whether the result will be odd or even.",
				PayoutMultiplier: decimal.NewFromFloat(1.9),
				GameCategory:     models.CategorySattamatka,
			},
			{
				Name:             "Heads/Tails",
				Description:      "Choose either heads or tails. Win if your selection matches the result.",
				PayoutMultiplier: decimal.NewFromFloat(1.9),
				GameCategory:     models.CategoryCoinToss,
			},
			{
				Name:             "Match Winner",
				Description:      "Pick the team that wins the match.",
				PayoutMultiplier: decimal.NewFromFloat(1.9),
				GameCategory:     models.CategoryTeamMatch,
				Team1:            strptr("Mumbai Indians"),
				Team2:            strptr("Chennai Super Kings"),
			},
		}
		for i := range defaults {
			if err := store.CreateGameType(ctx, &defaults[i]); err != nil {
				return err
			}
		}
		log.WithField("count", len(defaults)).Info("seeded default game types")
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		admin := models.User{
			Username: "admin",
			Password: "password",
			Balance:  decimal.NewFromInt(1000),
			Role:     models.RoleAdmin,
		}
		if err := store.CreateUser(ctx, &admin); err != nil {
			return err
		}
		log.Info("seeded bootstrap admin user")
	}

	return nil
}

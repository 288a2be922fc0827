package bet

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"matka/engine"
	"matka/helpers"
	"matka/middlewares"
	"matka/storage"
)

type Controller struct {
	wager *engine.Wager
	store storage.Store
}

func NewController(wager *engine.Wager, store storage.Store) *Controller {
	return &Controller{wager: wager, store: store}
}

type placeBetRequest struct {
	UserID     uint            `json:"user_id"`
	MarketID   uint            `json:"market_id"`
	GameTypeID uint            `json:"game_type_id"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
	Selection  string          `json:"selection"`
}

func (ct *Controller) PlaceBet(c *fiber.Ctx) error {
	var req placeBetRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if req.UserID != 0 && req.UserID != user.ID {
		return helpers.JSONError(c, fiber.StatusForbidden, "Cannot place bets for another user")
	}

	bet, err := ct.wager.PlaceBet(c.Context(), user.ID, req.MarketID, req.GameTypeID, req.BetAmount, req.Selection)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusCreated, "Bet placed", bet)
}

func (ct *Controller) UserBets(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if user.ID != uint(id) && !user.IsAdmin() {
		return helpers.JSONError(c, fiber.StatusForbidden, "Forbidden")
	}

	bets, err := ct.wager.UserBets(c.Context(), uint(id))
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Bets retrieved", bets)
}

func (ct *Controller) AllBets(c *fiber.Ctx) error {
	bets, err := ct.store.ListBets(c.Context())
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Bets retrieved", bets)
}

package gametype

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"matka/helpers"
	"matka/models"
	"matka/storage"
)

type Controller struct {
	store storage.Store
}

func NewController(store storage.Store) *Controller {
	return &Controller{store: store}
}

type createGameTypeRequest struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	PayoutMultiplier decimal.Decimal `json:"payout_multiplier"`
	GameCategory     string          `json:"game_category"`
	Team1            *string         `json:"team1"`
	Team2            *string         `json:"team2"`
	TeamLogoURL1     *string         `json:"team_logo_url1"`
	TeamLogoURL2     *string         `json:"team_logo_url2"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	var req createGameTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.GameCategory == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Name and game category are required")
	}
	if req.PayoutMultiplier.LessThan(decimal.NewFromInt(1)) {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Payout multiplier must be at least 1")
	}

	gt := models.GameType{
		Name:             req.Name,
		Description:      req.Description,
		PayoutMultiplier: req.PayoutMultiplier,
		GameCategory:     req.GameCategory,
		Team1:            req.Team1,
		Team2:            req.Team2,
		TeamLogoURL1:     req.TeamLogoURL1,
		TeamLogoURL2:     req.TeamLogoURL2,
	}
	if err := ct.store.CreateGameType(c.Context(), &gt); err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusCreated, "Game type created", gt)
}

func (ct *Controller) List(c *fiber.Ctx) error {
	gameTypes, err := ct.store.ListGameTypes(c.Context())
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Game types retrieved", gameTypes)
}

func (ct *Controller) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid game type id")
	}
	gt, err := ct.store.GetGameType(c.Context(), uint(id))
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Game type retrieved", gt)
}

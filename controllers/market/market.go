package market

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"matka/engine"
	"matka/helpers"
	"matka/middlewares"
	"matka/models"
	"matka/storage"
)

type Controller struct {
	store      storage.Store
	lifecycle  *engine.Lifecycle
	settlement *engine.Settlement
}

func NewController(store storage.Store, lifecycle *engine.Lifecycle, settlement *engine.Settlement) *Controller {
	return &Controller{store: store, lifecycle: lifecycle, settlement: settlement}
}

func marketID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

type createMarketRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BannerImage string     `json:"banner_image"`
	OpeningTime time.Time  `json:"opening_time"`
	ClosingTime time.Time  `json:"closing_time"`
	ResultTime  *time.Time `json:"result_time"`
	GameTypes   []uint     `json:"game_types"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	var req createMarketRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || len(req.GameTypes) == 0 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Name and game types are required")
	}
	if !req.ClosingTime.After(req.OpeningTime) {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Closing time must be after opening time")
	}

	admin, ok := middlewares.CurrentUser(c)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	ids, err := json.Marshal(req.GameTypes)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid game types")
	}

	// New markets open immediately so they show up in the active list.
	market := models.Market{
		Name:        req.Name,
		Description: req.Description,
		BannerImage: req.BannerImage,
		Status:      models.MarketOpen,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		ResultTime:  req.ResultTime,
		CreatedBy:   admin.ID,
		GameTypes:   ids,
	}
	if err := ct.store.CreateMarket(c.Context(), &market); err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusCreated, "Market created", market)
}

func (ct *Controller) Active(c *fiber.Ctx) error {
	markets, err := ct.store.ListMarketsByStatus(c.Context(), models.MarketOpen, models.MarketClosingSoon)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Markets retrieved", markets)
}

func (ct *Controller) All(c *fiber.Ctx) error {
	markets, err := ct.store.ListMarkets(c.Context())
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Markets retrieved", markets)
}

func (ct *Controller) Get(c *fiber.Ctx) error {
	id, err := marketID(c)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid market id")
	}
	market, err := ct.store.GetMarket(c.Context(), id)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Market retrieved", market)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (ct *Controller) UpdateStatus(c *fiber.Ctx) error {
	id, err := marketID(c)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid market id")
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	market, err := ct.lifecycle.UpdateMarketStatus(c.Context(), id, req.Status)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Market status updated", market)
}

type declareResultRequest struct {
	Result string `json:"result"`
}

func (ct *Controller) DeclareResult(c *fiber.Ctx) error {
	id, err := marketID(c)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid market id")
	}
	var req declareResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Result == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Result is required")
	}

	admin, ok := middlewares.CurrentUser(c)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	market, err := ct.settlement.DeclareResult(c.Context(), id, req.Result, admin.ID)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Result declared", market)
}

func (ct *Controller) GameTypes(c *fiber.Ctx) error {
	id, err := marketID(c)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid market id")
	}
	market, err := ct.store.GetMarket(c.Context(), id)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	gameTypes, err := ct.store.GetGameTypesByID(c.Context(), market.GameTypeIDs())
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Game types retrieved", gameTypes)
}

func (ct *Controller) Results(c *fiber.Ctx) error {
	markets, err := ct.store.ListMarketsByStatus(c.Context(), models.MarketResulted)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Results retrieved", markets)
}

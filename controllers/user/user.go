package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"matka/engine"
	"matka/helpers"
	"matka/middlewares"
	"matka/models"
	"matka/storage"
)

type Controller struct {
	store  storage.Store
	wallet *engine.Wallet
}

func NewController(store storage.Store, wallet *engine.Wallet) *Controller {
	return &Controller{store: store, wallet: wallet}
}

// userID extracts the :id param and enforces self-or-admin access. When
// it returns false the response has already been written.
func (ct *Controller) userID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		_ = helpers.JSONError(c, fiber.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		_ = helpers.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	if user.ID != uint(id) && !user.IsAdmin() {
		_ = helpers.JSONError(c, fiber.StatusForbidden, "Forbidden")
		return 0, false
	}
	return uint(id), true
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a user with the default starting balance. Password
// hashing is handled by the auth layer in front of this service; the
// value is stored opaquely.
func (ct *Controller) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	if _, err := ct.store.GetUserByUsername(c.Context(), req.Username); err == nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Username already taken")
	}

	user := models.User{
		Username: req.Username,
		Password: req.Password,
		Balance:  decimal.NewFromInt(1000),
		Role:     models.RoleUser,
	}
	if err := ct.store.CreateUser(c.Context(), &user); err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusCreated, "User registered", user)
}

func (ct *Controller) Balance(c *fiber.Ctx) error {
	id, ok := ct.userID(c)
	if !ok {
		return nil
	}
	user, err := ct.store.GetUser(c.Context(), id)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Balance retrieved", fiber.Map{
		"user_id": user.ID,
		"balance": user.Balance,
	})
}

func (ct *Controller) Transactions(c *fiber.Ctx) error {
	id, ok := ct.userID(c)
	if !ok {
		return nil
	}
	trxs, err := ct.store.ListUserTransactions(c.Context(), id)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Transactions retrieved", trxs)
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (ct *Controller) Deposit(c *fiber.Ctx) error {
	id, ok := ct.userID(c)
	if !ok {
		return nil
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	user, err := ct.wallet.Deposit(c.Context(), id, req.Amount)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Deposit completed", fiber.Map{
		"user_id": user.ID,
		"balance": user.Balance,
	})
}

func (ct *Controller) Withdraw(c *fiber.Ctx) error {
	id, ok := ct.userID(c)
	if !ok {
		return nil
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	user, err := ct.wallet.Withdraw(c.Context(), id, req.Amount)
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Withdrawal completed", fiber.Map{
		"user_id": user.ID,
		"balance": user.Balance,
	})
}

func (ct *Controller) List(c *fiber.Ctx) error {
	users, err := ct.store.ListUsers(c.Context())
	if err != nil {
		return helpers.EngineError(c, err)
	}
	return helpers.JSONSuccess(c, fiber.StatusOK, "Users retrieved", users)
}

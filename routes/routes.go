package routes

import (
	"github.com/gofiber/fiber/v2"

	"matka/controllers/bet"
	"matka/controllers/gametype"
	"matka/controllers/market"
	"matka/controllers/user"
	"matka/middlewares"
	"matka/storage"
)

type Controllers struct {
	Users     *user.Controller
	Markets   *market.Controller
	GameTypes *gametype.Controller
	Bets      *bet.Controller
}

func Setup(app *fiber.App, store storage.Store, ct Controllers) {
	api := app.Group("/api")

	api.Post("/register", ct.Users.Register)

	authed := api.Group("", middlewares.UserAuth(store))
	admin := middlewares.AdminOnly()

	authed.Get("/markets", ct.Markets.Active)
	authed.Get("/markets/all", admin, ct.Markets.All)
	authed.Post("/markets", admin, ct.Markets.Create)
	authed.Get("/markets/:id", ct.Markets.Get)
	authed.Patch("/markets/:id/status", admin, ct.Markets.UpdateStatus)
	authed.Post("/markets/:id/result", admin, ct.Markets.DeclareResult)
	authed.Get("/markets/:id/gametypes", ct.Markets.GameTypes)

	authed.Get("/gametypes", ct.GameTypes.List)
	authed.Post("/gametypes", admin, ct.GameTypes.Create)
	authed.Get("/gametypes/:id", ct.GameTypes.Get)

	authed.Post("/bets", ct.Bets.PlaceBet)
	authed.Get("/bets", admin, ct.Bets.AllBets)
	authed.Get("/users/:id/bets", ct.Bets.UserBets)

	authed.Get("/users", admin, ct.Users.List)
	authed.Get("/users/:id/balance", ct.Users.Balance)
	authed.Get("/users/:id/transactions", ct.Users.Transactions)
	authed.Post("/users/:id/deposit", ct.Users.Deposit)
	authed.Post("/users/:id/withdraw", ct.Users.Withdraw)

	authed.Get("/results", ct.Markets.Results)
}

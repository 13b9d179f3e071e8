package routes

import (
	"github.com/shashiranjanraj/zaika/app/controllers"
	"github.com/shashiranjanraj/zaika/pkg/middleware"
	"github.com/shashiranjanraj/zaika/pkg/router"
)

// Controllers bundles the handler set wired by the server.
type Controllers struct {
	Auth    *controllers.AuthController
	Users   *controllers.UserController
	Foods   *controllers.FoodController
	Orders  *controllers.OrderController
	Uploads *controllers.UploadController

	// Authenticate resolves the caller identity per request (fresh role
	// and blocked state from the user store, never from token claims).
	Authenticate router.Middleware
}

// RegisterAPI mounts the REST surface under /api.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	// Public
	api.Post("/users/signup", "users.signup", c.Auth.Signup)
	api.Post("/users/login", "users.login", c.Auth.Login)
	api.Get("/foods", "foods.list", c.Foods.List)
	api.Get("/foods/tags", "foods.tags", c.Foods.Tags)
	api.Get("/foods/{foodID}", "foods.show", c.Foods.Get)

	// Authenticated
	authed := api.Group("", c.Authenticate)

	users := authed.Group("/users")
	users.Get("/me", "users.me", c.Users.Me)
	users.Put("/me", "users.update", c.Users.UpdateMe)
	users.Put("/password", "users.password", c.Users.ChangePassword)
	users.Get("", "users.list", c.Users.List, middleware.RequireAdmin)
	users.Put("/{userID}/block", "users.block", c.Users.ToggleBlock, middleware.RequireAdmin)

	foods := authed.Group("/foods", middleware.RequireAdmin)
	foods.Post("", "foods.create", c.Foods.Create)
	foods.Put("/{foodID}", "foods.update", c.Foods.Update)
	foods.Delete("/{foodID}", "foods.delete", c.Foods.Delete)

	orders := authed.Group("/orders")
	orders.Post("/create", "orders.create", c.Orders.Create)
	orders.Put("/pay", "orders.pay", c.Orders.Pay)
	orders.Get("/track/{orderID}", "orders.track", c.Orders.Track)
	orders.Get("/order/{orderID}", "orders.show", c.Orders.Get)
	orders.Get("/allstatus", "orders.statuses", c.Orders.AllStatus)
	orders.Put("/{orderID}/status", "orders.status", c.Orders.UpdateStatus, middleware.RequireAdmin)
	orders.Get("", "orders.list", c.Orders.List)
	orders.Get("/{status}", "orders.list_by_status", c.Orders.List)

	authed.Post("/upload", "upload.image", c.Uploads.Image)
}

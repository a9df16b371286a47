package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/webshop/internal/handlers"
	"github.com/Skotchmaster/webshop/internal/metrics"
	"github.com/Skotchmaster/webshop/internal/middleware/auth"
	"github.com/Skotchmaster/webshop/internal/models"
)

type Deps struct {
	Gate    *auth.Gate
	Metrics *metrics.Metrics

	Health  *handlers.HealthHTTP
	Auth    *handlers.AuthHTTP
	Users   *handlers.UsersHTTP
	Catalog *handlers.CatalogHTTP
	Orders  *handlers.OrdersHTTP
	Reviews *handlers.ReviewsHTTP
}

// Register mounts every route. Gate.Authenticate runs globally; Require decides per route.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	e.Use(d.Gate.Authenticate)
	admin := d.Gate.Require(models.RoleAdmin)
	user := d.Gate.Require(models.RoleUser)

	e.POST("/login", d.Auth.Login)
	e.POST("/refresh", d.Auth.Refresh)
	e.DELETE("/logout", d.Auth.LogOut)

	e.POST("/users", d.Users.Register)
	e.GET("/users", d.Users.GetUsers, admin)
	e.GET("/users/:id", d.Users.GetUser, admin)
	e.PUT("/users/:id", d.Users.UpdateUser, admin)
	e.DELETE("/users/:id", d.Users.DeleteUser, admin)

	e.GET("/orders", d.Orders.GetOrders, admin)
	e.POST("/orders", d.Orders.CreateOrder, admin)
	e.GET("/orders/:id", d.Orders.GetOrder, admin)
	e.PUT("/orders/:id", d.Orders.UpdateOrder, admin)
	e.DELETE("/orders/:id", d.Orders.DeleteOrder, admin)

	e.GET("/products", d.Catalog.GetProducts)
	e.GET("/products/search", d.Catalog.SearchProducts)
	e.GET("/products/:id", d.Catalog.GetProduct)
	e.POST("/products", d.Catalog.CreateProduct, admin)
	e.PUT("/products/:id", d.Catalog.UpdateProduct, admin)
	e.DELETE("/products/:id", d.Catalog.DeleteProduct, admin)

	e.GET("/reviews", d.Reviews.GetReviews)
	e.GET("/reviews/:id", d.Reviews.GetReview)
	e.POST("/reviews", d.Reviews.CreateReview, user)
	e.PUT("/reviews/:id", d.Reviews.UpdateReview, admin)
	e.DELETE("/reviews/:id", d.Reviews.DeleteReview, admin)
}

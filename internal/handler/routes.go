package handler

import (
	"github.com/labstack/echo/v4"
	mid "github.com/raisama21/ims/internal/middleware"
)

// Register mounts every endpoint on e. Reads under /dashboard need a
// session; writes additionally need the matching capability.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)
	e.POST("/logout", h.Logout)

	mutate := mid.Require(mid.CapMutateCatalog)
	admin := mid.Require(mid.CapManageUsers)

	dash := e.Group("/dashboard", mid.AuthMiddleware(h.jwt, h.users))
	dash.GET("", h.Dashboard)

	dash.GET("/categories", h.ListCategories)
	dash.POST("/categories", h.CreateCategory, mutate)
	dash.GET("/categories/:id", h.GetCategory)
	dash.PUT("/categories/:id", h.UpdateCategory, mutate)
	dash.DELETE("/categories/:id", h.DeleteCategory, mutate)

	dash.GET("/products", h.ListProducts)
	dash.POST("/products", h.CreateProduct, mutate)
	dash.GET("/products/:id", h.GetProduct)
	dash.PUT("/products/:id", h.UpdateProduct, mutate)
	dash.DELETE("/products/:id", h.DeleteProduct, mutate)

	dash.GET("/customers", h.ListCustomers)
	dash.POST("/customers", h.CreateCustomer, mutate)
	dash.GET("/customers/:id", h.GetCustomer)
	dash.PUT("/customers/:id", h.UpdateCustomer, mutate)
	dash.DELETE("/customers/:id", h.DeleteCustomer, mutate)

	users := dash.Group("/users", admin)
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	dash.GET("/orders", h.ListOrders)
	dash.POST("/orders/create", h.CreateOrder, mutate)
	dash.GET("/orders/:id", h.GetOrder)
	dash.PUT("/orders/:id", h.UpdateOrderPayment, mutate)
	dash.GET("/orders/:id/track-order", h.GetTracking)
	dash.POST("/orders/:id/track-order", h.AdvanceTracking, mutate)
	dash.POST("/orders/:id/destroy", h.DeleteOrder, mutate)

	dash.GET("/reports/sales", h.SalesReport)
}

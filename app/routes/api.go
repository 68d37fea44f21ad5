package routes

import (
	"github.com/chenweihao/weishop/app/controllers"
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/middleware"
	"github.com/chenweihao/weishop/pkg/rbac"
	"github.com/chenweihao/weishop/pkg/router"
	"gorm.io/gorm"
)

// RegisterAPI mounts every HTTP route. Route names follow the
// "resource.action" convention used by router.URL.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	auth := controllers.NewAuthController(db)
	products := controllers.NewProductController(db)
	cart := controllers.NewCartController(db)
	addresses := controllers.NewAddressController(db)
	orders := controllers.NewOrderController(db)
	adminProducts := controllers.NewAdminProductController(db)
	adminOrders := controllers.NewAdminOrderController(db)
	adminUsers := controllers.NewAdminUserController(db)
	adminStats := controllers.NewAdminStatsController(db)

	api := r.Group("/api")

	// Public surface.
	api.Post("/auth/register", "auth.register", auth.Register)
	api.Post("/auth/login", "auth.login", auth.Login)
	api.Post("/auth/refresh", "auth.refresh", auth.Refresh)
	api.Get("/products", "products.index", products.Index)
	api.Get("/products/{id}", "products.show", products.Show)

	// Everything below needs a valid token.
	protected := api.Group("", middleware.AuthMiddleware)
	protected.Get("/profile", "auth.profile", auth.Profile)

	protected.Get("/cart", "cart.show", cart.Show)
	protected.Post("/cart/items", "cart.items.add", cart.AddItem)
	protected.Put("/cart/items/{id}", "cart.items.update", cart.UpdateItem)
	protected.Post("/cart/items/remove", "cart.items.remove", cart.RemoveItems)
	protected.Delete("/cart", "cart.clear", cart.Clear)

	protected.Get("/addresses", "addresses.index", addresses.Index)
	protected.Post("/addresses", "addresses.create", addresses.Create)
	protected.Get("/addresses/{id}", "addresses.show", addresses.Show)
	protected.Put("/addresses/{id}", "addresses.update", addresses.Update)
	protected.Delete("/addresses/{id}", "addresses.delete", addresses.Delete)
	protected.Post("/addresses/{id}/default", "addresses.default", addresses.SetDefault)

	protected.Post("/orders", "orders.create", orders.Create)
	protected.Get("/orders", "orders.index", orders.Index)
	protected.Get("/orders/{id}", "orders.show", orders.Show)
	protected.Post("/orders/{id}/cancel", "orders.cancel", orders.Cancel)
	protected.Post("/orders/{id}/receipt", "orders.receipt", orders.ConfirmReceipt)

	// Back office.
	admin := protected.Group("/admin", rbac.HasRole(models.RoleAdmin))

	admin.Get("/products", "admin.products.index", adminProducts.Index)
	admin.Post("/products", "admin.products.create", adminProducts.Create)
	admin.Get("/products/{id}", "admin.products.show", adminProducts.Show)
	admin.Put("/products/{id}", "admin.products.update", adminProducts.Update)
	admin.Delete("/products/{id}", "admin.products.delete", adminProducts.Delete)
	admin.Post("/products/{id}/restore", "admin.products.restore", adminProducts.Restore)
	admin.Post("/products/{id}/image", "admin.products.image", adminProducts.UploadImage)

	admin.Get("/orders", "admin.orders.index", adminOrders.Index)
	admin.Get("/orders/{id}", "admin.orders.show", adminOrders.Show)
	admin.Put("/orders/{id}/status", "admin.orders.status", adminOrders.UpdateStatus)

	admin.Get("/users", "admin.users.index", adminUsers.Index)
	admin.Get("/users/{id}", "admin.users.show", adminUsers.Show)
	admin.Post("/users/{id}/lock", "admin.users.lock", adminUsers.Lock)
	admin.Post("/users/{id}/unlock", "admin.users.unlock", adminUsers.Unlock)
	admin.Post("/users/{id}/password", "admin.users.password", adminUsers.ResetPassword)

	admin.Get("/stats/core", "admin.stats.core", adminStats.Core)
	admin.Get("/stats/daily-sales", "admin.stats.daily", adminStats.DailySales)
	admin.Get("/stats/orders-feed", "admin.stats.feed", adminStats.OrdersFeed)
}

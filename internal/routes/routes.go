package routes

import (
	"github.com/gin-gonic/gin"

	"my_market_back_end/internal/handlers/admin"
	"my_market_back_end/internal/handlers/invoice"
	"my_market_back_end/internal/handlers/product"
	"my_market_back_end/internal/handlers/user"
	"my_market_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// 🔓 Public
	auth := api.Group("/auth")
	{
		auth.POST("/register", user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
	}

	productsGroup := api.Group("/products")
	{
		productsGroup.GET("", product.ListProducts)
		productsGroup.GET("/search", product.SearchProducts)
		productsGroup.GET("/:id", product.GetProduct)
	}

	// 🔒 Utilisateur connecté
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/cart", user.CreateCart)
		authed.GET("/cart/:id", user.GetCart)
		authed.POST("/cart/:id/items", user.AddToCart)
		authed.DELETE("/cart/:id/items/:productId", user.RemoveFromCart)
		authed.DELETE("/cart/:id", user.ClearCart)

		authed.POST("/orders", user.CreateOrder)
		authed.GET("/orders", user.GetMyOrders)
		authed.GET("/orders/ws", user.OrderWebSocket)
		authed.GET("/orders/:id", user.GetOrderByID)
		authed.GET("/orders/:id/invoice", invoice.DownloadInvoice)
	}

	// 🛡️ Administration
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/orders", admin.GetAllOrders)
		adminGroup.PUT("/orders/:id", admin.UpdateOrder)

		adminGroup.GET("/statistics/products", admin.GetProductStatistic)
		adminGroup.GET("/statistics/:name", admin.GetStatistic)

		adminGroup.POST("/products", product.CreateProduct)
		adminGroup.PUT("/products/:id", product.UpdateProduct)
		adminGroup.POST("/products/:id/images", product.UploadProductImage)
	}
}

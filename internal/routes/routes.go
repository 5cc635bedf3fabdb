package routes

import (
	"github.com/gin-gonic/gin"

	"velora_back_end/internal/handlers/auth"
	"velora_back_end/internal/handlers/cart"
	"velora_back_end/internal/handlers/coupon"
	"velora_back_end/internal/handlers/order"
	"velora_back_end/internal/handlers/payment"
	"velora_back_end/internal/handlers/product"
	"velora_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.Use(middleware.APIRateLimit())

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", middleware.RegisterRateLimit(), auth.Register)
		authGroup.POST("/login", middleware.LoginRateLimit(), auth.Login)
		authGroup.POST("/logout", auth.Logout)
		authGroup.GET("/profile", middleware.AuthRequired(), auth.GetProfile)
		authGroup.POST("/forgot-password", middleware.ForgotPasswordRateLimit(), auth.ForgotPassword)
		authGroup.PUT("/reset-password/:token", auth.ResetPassword)

		// OAuth social
		authGroup.GET("/:provider", auth.BeginAuth)
		authGroup.GET("/:provider/callback", auth.CallbackAuth)
		authGroup.POST("/:provider/exchange", auth.ExchangeCode)
	}

	// Produits
	products := api.Group("/products")
	{
		products.GET("/", middleware.AuthRequired(), middleware.RequireAdmin(), product.GetAllProducts)
		products.GET("/featured", product.GetFeaturedProducts)
		products.GET("/recommendations", product.GetRecommendedProducts)
		products.GET("/category/:category", product.GetProductsByCategory)
		products.GET("/search", middleware.SearchRateLimit(), product.SearchProducts)
		products.GET("/:id", product.GetProductByID)
		products.GET("/:id/rates", product.GetRates)
		products.GET("/:id/image/signed", product.GetSignedImageURL)

		products.POST("/:id/rate", middleware.AuthRequired(), product.AddRating)

		products.POST("/", middleware.AuthRequired(), middleware.RequireAdmin(), product.CreateProduct)
		products.POST("/:id/image", middleware.AuthRequired(), middleware.RequireAdmin(), product.UploadProductImage)
		products.PATCH("/:id", middleware.AuthRequired(), middleware.RequireAdmin(), product.ToggleFeaturedProduct)
		products.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin(), product.DeleteProduct)
	}

	// Panier
	carts := api.Group("/carts", middleware.AuthRequired())
	{
		carts.GET("/", cart.GetCart)
		carts.POST("/", cart.AddToCart)
		carts.PUT("/:id", cart.UpdateQuantity)
		carts.DELETE("/:id", cart.RemoveFromCart)
		carts.DELETE("/", cart.ClearCart)
	}

	// Coupons
	coupons := api.Group("/coupons", middleware.AuthRequired())
	{
		coupons.GET("/", coupon.GetCoupon)
		coupons.GET("/validate", coupon.ValidateCoupon)
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.GET("/", order.GetMyOrders)

		admin := orders.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/", order.GetAllOrders)
			admin.GET("/stats", order.GetOrderStats)
			admin.PUT("/:id/status", order.UpdateOrderStatus)
		}

		orders.GET("/:id", order.GetOrderByID)
		orders.PUT("/:id/cancel", order.CancelOrder)
	}

	// Paiements
	payments := api.Group("/payments")
	{
		payments.POST("/create-checkout-session", middleware.AuthRequired(), payment.CreateCheckoutSession)
		payments.POST("/checkout-success", middleware.AuthRequired(), payment.CheckoutSuccess)

		// Pas d'auth : Stripe signe ses requêtes
		payments.POST("/webhook", payment.StripeWebhook)
	}

	// Temps réel
	api.GET("/ws/orders", middleware.AuthRequired(), order.OrdersWebSocket)
}

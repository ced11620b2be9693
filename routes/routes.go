package routes

import (
	"Gamestore/controllers"
	"Gamestore/middleware"
	"Gamestore/services/checkout"
	"Gamestore/services/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, pendingStore checkout.PendingStore,
	intentGateway payment.IntentGateway, redirectGateway payment.RedirectGateway) {

	checkoutService := &checkout.Service{
		DB:       db,
		Pending:  pendingStore,
		Intent:   intentGateway,
		Redirect: redirectGateway,
	}
	paymentController := &controllers.PaymentController{DB: db, Checkout: checkoutService}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	// Public catalog reads
	games := api.Group("/games")
	{
		games.GET("", controllers.ListGames(db))
		games.GET("/featured", controllers.FeaturedGames(db))
		games.GET("/search", controllers.SearchGames(db))
		games.GET("/:idOrSlug", controllers.GetGame(db))
	}

	api.GET("/reviews", controllers.ListReviews(db))

	// Identity lifecycle
	api.POST("/signup", controllers.SignUp(db))
	api.POST("/login", controllers.Login(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)
		authentication.GET("/me", controllers.GetCurrentUser(db))
		authentication.PATCH("/update", controllers.UpdateProfile(db))

		// Session cart
		authentication.POST("/cart/add", controllers.AddToCart(db))
		authentication.GET("/cart", controllers.GetCart(db))
		authentication.DELETE("/cart/clear", controllers.ClearCart)

		// Entitlements
		authentication.GET("/wishlist", controllers.ListWishlist(db))
		authentication.POST("/wishlist", controllers.AddToWishlist(db))
		authentication.DELETE("/wishlist/remove_game", controllers.RemoveFromWishlist(db))
		authentication.GET("/library", controllers.ListLibrary(db))
		authentication.GET("/library/recent", controllers.RecentlyPlayed(db))

		authentication.POST("/reviews", controllers.CreateReview(db))
		authentication.PATCH("/reviews/:id", controllers.UpdateReview(db))

		// Intent-based gateway flow
		authentication.POST("/payment/create-intent", paymentController.CreateIntent)
		authentication.POST("/payment/confirm", paymentController.ConfirmPayment)
		authentication.GET("/payment/orders", paymentController.OrderHistory)

		// Redirect-based gateway flow
		authentication.POST("/payment/alt/create", paymentController.CreateAltOrder)
		authentication.POST("/payment/alt/verify", paymentController.VerifyAltPayment)
		authentication.GET("/payment/alt/details", paymentController.AltPaymentDetails)

		// Catalog management, admin only
		admin := authentication.Group("/")
		admin.Use(middleware.AdminRequired(db))
		{
			admin.POST("/games", controllers.CreateGame(db))
			admin.PATCH("/games/:id", controllers.UpdateGame(db))
			admin.PUT("/games/:id", controllers.UpdateGame(db))
			admin.DELETE("/games/:id", controllers.DeleteGame(db))
		}
	}
}

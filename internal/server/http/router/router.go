package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/papermart/papermart/internal/domain/model"
	"github.com/papermart/papermart/internal/server/http/handlers"
	"github.com/papermart/papermart/internal/server/http/middleware"
)

// Setup configures the gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, verifier handlers.WebhookVerifier, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	submissionHandler := handlers.NewSubmissionHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade, verifier)

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Provider callbacks carry their own signature; no session auth.
	api.POST("/payments/webhook", paymentHandler.Webhook)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	orders := authed.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("", middleware.RequireRole(model.RoleCustomer), orderHandler.Create)
	orders.POST("/:id/checkout", middleware.RequireRole(model.RoleCustomer), paymentHandler.Checkout)
	orders.POST("/:id/submissions", middleware.RequireRole(model.RoleFreelancer), submissionHandler.Submit)

	adminOrders := orders.Group("", middleware.RequireRole(model.RoleAdmin))
	adminOrders.POST("/:id/accept", orderHandler.Accept)
	adminOrders.POST("/:id/reject", orderHandler.Reject)
	adminOrders.POST("/:id/assign", orderHandler.Assign)
	adminOrders.GET("/:id/submissions", submissionHandler.List)

	submissions := authed.Group("/submissions", middleware.RequireRole(model.RoleAdmin))
	submissions.POST("/:id/approve", submissionHandler.Approve)
	submissions.POST("/:id/reject", submissionHandler.Reject)

	authed.POST("/payments/verify", paymentHandler.Verify)

	return engine
}

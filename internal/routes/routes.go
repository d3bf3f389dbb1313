// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and groups routes
// by surface: store (customer JWT), admin (JWT + role) and webhooks
// (shared secret).
package routes

import (
	"time"

	"falko/internal/config"
	"falko/internal/events"
	"falko/internal/handlers"
	"falko/internal/middleware"
	"falko/internal/repositories"
	"falko/internal/services/email"
	"falko/internal/services/furgonetka"
	"falko/internal/services/loyalty"
	"falko/internal/services/refund"
	"falko/internal/services/returns"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	// Repositories
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	rewardRepo := repositories.NewRewardRepository(repositories.DB)
	returnRepo := repositories.NewReturnRepository(repositories.DB)
	orderRepo := repositories.NewOrderRepository(repositories.DB)

	// Loyalty engine. Earning rules are tunable per environment; category
	// multipliers and the history limit keep their built-in defaults.
	loyaltyService := loyalty.NewService(
		ledgerRepo,
		rewardRepo,
		repositories.CacheService,
		loyalty.Config{
			PointsPerUnit:     config.GetFloatEnv("LOYALTY_POINTS_PER_UNIT", 1),
			FirstOrderBonus:   config.GetFloatEnv("LOYALTY_FIRST_ORDER_BONUS", 2.0),
			MinimumOrderValue: config.GetInt64Env("LOYALTY_MIN_ORDER_VALUE", 5000),
			MaxPointsPerOrder: config.GetIntEnv("LOYALTY_MAX_POINTS_PER_ORDER", 1000),
		},
	)

	// Return-flow collaborators. Each is optional in the returns service;
	// missing credentials degrade the side effect, not the return itself.
	var labels returns.LabelProvider
	if clientID := config.GetEnv("FURGONETKA_CLIENT_ID", ""); clientID != "" {
		tokens := furgonetka.NewTokenSource(
			clientID,
			config.GetEnv("FURGONETKA_CLIENT_SECRET", ""),
			config.GetEnv("FURGONETKA_BASE_URL", "https://api.furgonetka.pl"),
			nil,
		)
		labels = furgonetka.NewClient(
			tokens,
			config.GetEnv("FURGONETKA_BASE_URL", "https://api.furgonetka.pl"),
			config.GetDurationEnv("FURGONETKA_TIMEOUT", 15*time.Second),
		)
	}

	mailer := email.NewService(email.Config{
		APIKey:  config.GetEnv("RESEND_API_KEY", ""),
		From:    config.GetEnv("EMAIL_FROM", "Falko <noreply@falkoproject.com>"),
		ReplyTo: config.GetEnv("EMAIL_REPLY_TO", ""),
	})

	cards := refund.NewStripeRefunder(config.GetEnv("STRIPE_API_KEY", ""))

	returnsService := returns.NewService(
		returnRepo,
		orderRepo,
		loyaltyService,
		labels,
		mailer,
		cards,
		returns.Config{
			ReturnWindow:      config.GetDurationEnv("RETURN_WINDOW", 14*24*time.Hour),
			ProcessingWindow:  config.GetDurationEnv("RETURN_PROCESSING_WINDOW", 14*24*time.Hour),
			PointsRefundBonus: config.GetFloatEnv("RETURN_POINTS_BONUS", 1.10),
		},
	)

	// Orchestration triggers
	dispatcher := events.NewDispatcher()
	events.NewLoyaltyHooks(orderRepo, loyaltyService, mailer).Register(dispatcher)

	// Handlers
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyService)
	returnsHandler := handlers.NewReturnsHandler(returnsService)
	adminReturnsHandler := handlers.NewAdminReturnsHandler(returnsService)
	webhooksHandler := handlers.NewWebhooksHandler(
		dispatcher,
		config.GetEnv("WEBHOOK_SECRET", ""),
	)

	authMiddleware := middleware.NewAuthMiddleware(config.GetEnv("JWT_SECRET", "falko"))

	app.Get("/health", handlers.HealthCheck)
	app.Post("/webhooks/events", webhooksHandler.HandleEvent)

	// Store routes (customer JWT)
	store := app.Group("/store", authMiddleware.Handler)

	storeLoyalty := store.Group("/loyalty")
	storeLoyalty.Get("/points", loyaltyHandler.GetPoints)
	storeLoyalty.Get("/history", loyaltyHandler.GetHistory)
	storeLoyalty.Post("/redeem", loyaltyHandler.RedeemReward)
	storeLoyalty.Get("/rewards", loyaltyHandler.GetRewards)

	storeReturns := store.Group("/returns")
	storeReturns.Post("/", returnsHandler.CreateReturn)
	storeReturns.Get("/", returnsHandler.ListReturns)
	storeReturns.Get("/eligibility/:order_id", returnsHandler.CheckEligibility)
	storeReturns.Get("/:id", returnsHandler.GetReturn)

	// Admin routes (JWT + admin role)
	admin := app.Group("/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Get("/returns", adminReturnsHandler.ListReturns)
	admin.Get("/returns/:id", adminReturnsHandler.GetReturn)
	admin.Put("/returns/:id/status", adminReturnsHandler.UpdateStatus)
	admin.Post("/returns/:id/refund", adminReturnsHandler.ProcessRefund)
}

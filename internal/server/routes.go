package server

import (
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	tripHandler *handlers.TripHandler,
	dayHandler *handlers.DayHandler,
	quoteHandler *handlers.QuoteHandler,
	noteHandler *handlers.NoteHandler,
	statsHandler *handlers.StatsHandler,
	aiHandler *handlers.AIHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	authMiddleware echo.MiddlewareFunc,
	superAdminMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	catalogs := api.Group("/catalogs", authMiddleware)
	catalogs.GET("/:kind", catalogHandler.List)
	catalogs.POST("/:kind", catalogHandler.Create)
	catalogs.PUT("/:kind/replace", catalogHandler.Replace, superAdminMiddleware)
	catalogs.PUT("/:kind/:id", catalogHandler.Update)
	catalogs.DELETE("/:kind/:id", catalogHandler.Delete)

	trips := api.Group("/trips", authMiddleware)
	trips.GET("", tripHandler.List)
	trips.POST("", tripHandler.Create)
	trips.GET("/:id", tripHandler.Get)
	trips.PUT("/:id", tripHandler.Update)
	trips.DELETE("/:id", tripHandler.Delete)
	trips.POST("/:id/duplicate", tripHandler.Duplicate)

	trips.PUT("/:id/days/:day/items/:category", dayHandler.ReplaceItems)
	trips.PUT("/:id/days/:day/costs/:category", dayHandler.SetManualTotal)
	trips.DELETE("/:id/days/:day/costs/:category", dayHandler.ClearManualTotal)
	trips.POST("/:id/days/:day/rooms", dayHandler.PlanRooms)
	trips.POST("/:id/reprice", dayHandler.Reprice)

	trips.GET("/:id/quote", quoteHandler.Get)
	trips.GET("/:id/export/json", quoteHandler.ExportJSON)
	trips.GET("/:id/export/csv", quoteHandler.ExportCSV)
	trips.GET("/:id/export/pdf", quoteHandler.ExportPDF)

	trips.GET("/:id/notes", noteHandler.List)
	trips.POST("/:id/notes", noteHandler.Create)

	trips.POST("/:id/propose", aiHandler.Propose, aiRateLimiter)
	trips.POST("/:id/notes/suggest", aiHandler.SuggestNotes, aiRateLimiter)

	notes := api.Group("/notes", authMiddleware)
	notes.PUT("/:noteId", noteHandler.Update)
	notes.DELETE("/:noteId", noteHandler.Delete)

	stats := api.Group("/stats", authMiddleware)
	stats.GET("/overview", statsHandler.Overview)
	stats.GET("/cost-by-category", statsHandler.CostByCategory)
	stats.GET("/catalog-breakdown", statsHandler.CatalogBreakdown)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)

	admin := api.Group("/admin", authMiddleware, superAdminMiddleware)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:userId/role", adminHandler.SetRole)
	admin.GET("/ai-requests", adminHandler.ListAIRequests)
	admin.GET("/usage", adminHandler.Usage)
}

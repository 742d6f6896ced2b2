package router

import (
	"fitcoach/internal/middleware"
	"fitcoach/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetCoachingRoutes(api *echo.Group, handler *rest.CoachingHandler) {
	coach := api.Group("/coach", middleware.AuthMiddleware())

	coach.POST("/events", handler.RecordEvent)
	coach.GET("/summary", handler.GetSummary)
	coach.GET("/insights", handler.GetInsights)
	coach.POST("/adapt", handler.AdaptMessage)
	coach.GET("/prompt", handler.GetPrompt)
}

func SetProfileRoutes(api *echo.Group, handler *rest.ProfileHandler) {
	profile := api.Group("/profile", middleware.AuthMiddleware())

	profile.GET("/personality", handler.GetPersonality)
	profile.PUT("/personality", handler.SetPersonality)
}

func SetCoachingAdminRoutes(api *echo.Group, handler *rest.CoachingAdminHandler) {
	admin := api.Group("/admin/coaching", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/policy", handler.GetPolicy)
	admin.PUT("/policy", handler.UpsertPolicy)
}

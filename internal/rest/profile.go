package rest

import (
	"context"
	"net/http"
	"time"

	"fitcoach/domain"
	"fitcoach/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ProfileHandler struct {
		validate       *validator.Validate
		profileService ProfileService
		timeout        time.Duration
	}

	ProfileService interface {
		GetProfile(ctx context.Context, userID uint) (domain.UserProfile, error)
		SetPersonality(ctx context.Context, userID uint, personality domain.Personality, weeklyGoal int) (domain.UserProfile, error)
	}

	SetPersonalityRequest struct {
		CoachPersonality string `json:"coach_personality" validate:"required,oneof=aggressive disciplined calm friendly"`
		WeeklyGoal       int    `json:"weekly_goal" validate:"omitempty,min=1,max=14"`
	}
)

func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{
		validate:       validator.New(),
		profileService: svc,
		timeout:        10 * time.Second,
	}
}

// GET /api/v1/profile/personality
func (h *ProfileHandler) GetPersonality(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user profile", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to get profile"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// PUT /api/v1/profile/personality
func (h *ProfileHandler) SetPersonality(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req SetPersonalityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.profileService.SetPersonality(ctx, userID, domain.Personality(req.CoachPersonality), req.WeeklyGoal)
	if err != nil {
		logger.Error("Failed to update coach personality", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to update profile"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

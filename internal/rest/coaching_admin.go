package rest

import (
	"net/http"

	"fitcoach/business/coaching"
	"fitcoach/domain"

	"github.com/labstack/echo/v4"
)

type CoachingAdminHandler struct {
	policyRepo coaching.PolicyRepository
}

func NewCoachingAdminHandler(policyRepo coaching.PolicyRepository) *CoachingAdminHandler {
	return &CoachingAdminHandler{policyRepo: policyRepo}
}

// GET /api/v1/admin/coaching/policy?name=default
func (h *CoachingAdminHandler) GetPolicy(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if name == "" {
		name = coaching.PolicyName
	}

	policy, ok, err := h.policyRepo.GetPolicy(ctx, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "policy not found",
		})
	}

	return c.JSON(http.StatusOK, policy)
}

// PUT /api/v1/admin/coaching/policy
// body: CoachingPolicy JSON
func (h *CoachingAdminHandler) UpsertPolicy(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.CoachingPolicy
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if body.Name == "" {
		body.Name = coaching.PolicyName
	}

	if err := h.policyRepo.UpsertPolicy(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

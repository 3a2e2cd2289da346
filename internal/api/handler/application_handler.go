package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/practice-api/internal/core/ports"
)

// ApplicationHandler handles HTTP requests for practitioner onboarding.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Submit handles POST /v1/applications — anyone may apply.
//
// @Summary      Submit a practitioner application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      submitApplicationRequest  true  "Applicant details"
// @Success      201   {object}  submitApplicationResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.Submit(c.Request().Context(), ports.SubmitApplicationInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Specializations: req.Specializations,
		Message:         req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, submitApplicationResponse{
		ApplicationID: result.ApplicationID,
		Status:        string(result.Status),
	})
}

// Approve handles POST /v1/applications/:id/approve — admin only.
//
// @Summary      Approve a pending application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Application ID"
// @Success      200 {object}  approveApplicationResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Failure      409 {object}  errorResponse
// @Router       /v1/applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c echo.Context) error {
	userID, role, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Approve(c.Request().Context(), ports.ApproveApplicationInput{
		ApplicationID: c.Param("id"),
		CallerID:      userID,
		CallerRole:    role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, approveApplicationResponse{
		Token:        result.Token,
		Code:         result.Code,
		RegisterLink: result.RegisterLink,
		ExpiresAt:    result.ExpiresAt,
	})
}

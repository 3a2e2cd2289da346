package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/practice-api/internal/core/ports"
)

// RegistrationHandler handles the public endpoints an approved applicant
// uses to finish onboarding. Both endpoints are unauthenticated; the invite
// token and code are the credential.
type RegistrationHandler struct {
	invites      ports.InviteService
	applications ports.ApplicationService
}

func NewRegistrationHandler(invites ports.InviteService, applications ports.ApplicationService) *RegistrationHandler {
	return &RegistrationHandler{invites: invites, applications: applications}
}

// Verify handles POST /v1/registration/verify — checks an invite without
// consuming it, returning the applicant details for form prefill.
//
// @Summary      Verify a registration invite
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRegistrationRequest  true  "Token and code"
// @Success      200   {object}  verifyRegistrationResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      410   {object}  errorResponse
// @Router       /v1/registration/verify [post]
func (h *RegistrationHandler) Verify(c echo.Context) error {
	var req verifyRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	invite, err := h.invites.VerifyPractitionerInvite(c.Request().Context(), req.Token, req.Code)
	if err != nil {
		return err
	}

	resp := verifyRegistrationResponse{ExpiresAt: invite.ExpiresAt}
	if p := invite.PractitionerPayload; p != nil {
		resp.Name = p.Name
		resp.Email = p.Email
		resp.Phone = p.Phone
		resp.Specializations = p.Specializations
	}
	return c.JSON(http.StatusOK, resp)
}

// Complete handles POST /v1/registration/complete — consumes the invite and
// provisions the user account and practitioner profile.
//
// @Summary      Complete practitioner registration
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      completeRegistrationRequest  true  "Token, code and password"
// @Success      201   {object}  completeRegistrationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      410   {object}  errorResponse
// @Router       /v1/registration/complete [post]
func (h *RegistrationHandler) Complete(c echo.Context) error {
	var req completeRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.applications.CompleteRegistration(c.Request().Context(), ports.CompleteRegistrationInput{
		Token:    req.Token,
		Code:     req.Code,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, completeRegistrationResponse{
		UserID:           result.UserID,
		PractitionerCode: result.PractitionerCode,
	})
}

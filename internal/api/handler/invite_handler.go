package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/practice-api/internal/core/ports"
)

// InviteHandler handles HTTP requests for the invite ledger.
type InviteHandler struct {
	service ports.InviteService
}

func NewInviteHandler(service ports.InviteService) *InviteHandler {
	return &InviteHandler{service: service}
}

// Create handles POST /v1/invites — a practitioner invites a client.
//
// @Summary      Create a client invite
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInviteRequest  true  "Invite details"
// @Success      201   {object}  createInviteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/invites [post]
func (h *InviteHandler) Create(c echo.Context) error {
	var req createInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	_, _, practitionerID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateClientInvite(c.Request().Context(), ports.CreateClientInviteInput{
		IssuerID:   practitionerID,
		Mobile:     req.Mobile,
		ClientName: req.ClientName,
		Note:       req.Note,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createInviteResponse{
		InviteID:  result.InviteID,
		Code:      result.Code,
		Link:      result.Link,
		ExpiresAt: result.ExpiresAt,
	})
}

// Verify handles POST /v1/invites/verify — a client redeems an invite code.
//
// @Summary      Verify and claim a client invite
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyInviteRequest  true  "Mobile and code"
// @Success      200   {object}  verifyInviteResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      410   {object}  errorResponse
// @Router       /v1/invites/verify [post]
func (h *InviteHandler) Verify(c echo.Context) error {
	var req verifyInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.VerifyClientInvite(c.Request().Context(), userID, req.Mobile, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyInviteResponse{
		InviteID:       result.InviteID,
		PractitionerID: result.PractitionerID,
	})
}

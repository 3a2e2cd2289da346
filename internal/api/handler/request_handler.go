package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/practice-api/internal/core/ports"
)

// RequestHandler handles HTTP requests for client request assignment.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /v1/requests — a client asks to be matched.
//
// @Summary      Submit a client request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Needs and optional message"
// @Success      201   {object}  requestResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
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

	result, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		ClientID: userID,
		Needs:    req.Needs,
		Message:  req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, requestResponse{
		RequestID:              result.RequestID,
		Status:                 string(result.Status),
		AssignedPractitionerID: result.AssignedPractitionerID,
	})
}

// Respond handles POST /v1/requests/:id/respond — the assigned practitioner
// accepts or declines.
//
// @Summary      Accept or decline an assigned request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Request ID"
// @Param        body  body      respondRequestRequest  true  "Action"
// @Success      200   {object}  requestResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/requests/{id}/respond [post]
func (h *RequestHandler) Respond(c echo.Context) error {
	var req respondRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, _, practitionerID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Respond(c.Request().Context(), ports.RespondInput{
		RequestID:      c.Param("id"),
		PractitionerID: practitionerID,
		Action:         ports.RequestAction(req.Action),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requestResponse{
		RequestID:              result.RequestID,
		Status:                 string(result.Status),
		AssignedPractitionerID: result.AssignedPractitionerID,
	})
}

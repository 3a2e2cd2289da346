package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - practitioner role requires a non-empty practitioner_id; without it the
//     JWT is structurally valid but operationally unusable — reject with 401.
func ctxIdentity(c echo.Context) (userID, role, practitionerID string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(string)
	practitionerID, _ = c.Get("practitioner_id").(string)
	if role == domain.RolePractitioner && practitionerID == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing practitioner identity")
	}

	return userID, role, practitionerID, nil
}

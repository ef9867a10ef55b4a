package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClientID extracts the client identity injected by the Auth middleware.
// Presence proves the middleware ran; a structurally valid token without a
// client identity is operationally unusable, so reject it with 401.
func ctxClientID(c echo.Context) (string, error) {
	clientID, _ := c.Get("client_id").(string)
	if clientID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing client identity")
	}
	return clientID, nil
}

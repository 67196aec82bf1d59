package handler

import (
	"net/http"

	"blogauth/internal/delivery/api/response"
	deliverycontext "blogauth/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the process is serving.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// PageResponse stands in for a rendered page; the UI lives elsewhere.
type PageResponse struct {
	Page   string  `json:"page"`
	UserID *string `json:"userId,omitempty"`
	Role   *string `json:"role,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Page answers page routes once the access policy let the request through.
func Page(c echo.Context) error {
	body := PageResponse{
		Page:  c.Request().URL.Path,
		Error: c.QueryParam("error"),
	}

	if sess, ok := deliverycontext.GetSession(c); ok {
		userID := sess.UserID().String()
		role := sess.Role().String()
		body.UserID = &userID
		body.Role = &role
	}

	return response.Success(c, http.StatusOK, body)
}

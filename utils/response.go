package utils

import (
	"errors"
	"net/http"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response shape: {success, message?, data?}.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func OKMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail translates a classified error into the envelope. Dependency and
// unclassified errors surface as a generic message; the handler is
// expected to have logged the detail.
func Fail(c echo.Context, err error) error {
	status := apperr.Status(err)
	message := "Internal server error"
	if status != http.StatusInternalServerError {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			message = ae.Message
		}
	}
	return c.JSON(status, Envelope{Success: false, Message: message})
}

func FailMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

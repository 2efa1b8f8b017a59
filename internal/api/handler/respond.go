package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the uniform response wrapper used on every API endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// respond writes a success envelope with the given status, message and data.
func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

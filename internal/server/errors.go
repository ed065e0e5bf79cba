package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/bium/internal/obsidian"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	var pe *service.PersistenceError
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, planner.ErrNotFound), errors.Is(err, obsidian.ErrVaultNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, planner.ErrValidation),
		errors.Is(err, obsidian.ErrVaultNotConfigured),
		errors.Is(err, obsidian.ErrInvalidFolder):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, planner.ErrInvalidTransition):
		return fiber.StatusConflict, err.Error()
	case errors.As(err, &pe):
		return fiber.StatusInternalServerError, "failed to save data"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code, message := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		logFailure(c, err)
	}
	return c.Status(code).JSON(ErrorResponse{Error: message})
}

func badRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

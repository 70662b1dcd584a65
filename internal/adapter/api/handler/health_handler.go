package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// StoreCheck reports whether the backing store answers.
type StoreCheck func(ctx context.Context) error

type HealthHandler struct {
	driver string
	check  StoreCheck
}

var healthHandler *HealthHandler

func NewHealthHandler(driver string, check StoreCheck) *HealthHandler {
	return &HealthHandler{
		driver: driver,
		check:  check,
	}
}

func SetupHealthHandler(driver string, check StoreCheck) {
	healthHandler = NewHealthHandler(driver, check)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	body := map[string]string{
		"status":  "ok",
		"storage": h.driver,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}

	if h.check != nil {
		if err := h.check(ctx); err != nil {
			body["status"] = "degraded"
			body["error"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
	}

	return c.JSON(http.StatusOK, body)
}

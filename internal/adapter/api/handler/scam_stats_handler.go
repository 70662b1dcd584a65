package handler

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/domain/entity"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/response"
)

type ScamStatsHandler struct {
	scamStatsUseCase *usecase.ScamStatsUseCase
}

func NewScamStatsHandler(scamStatsUseCase *usecase.ScamStatsUseCase) *ScamStatsHandler {
	return &ScamStatsHandler{
		scamStatsUseCase: scamStatsUseCase,
	}
}

func (h *ScamStatsHandler) GetStats(c echo.Context) error {
	stats, err := h.scamStatsUseCase.Latest(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

// RecomputeStats rebuilds every scope now and returns the full snapshot.
func (h *ScamStatsHandler) RecomputeStats(c echo.Context) error {
	stats, err := h.scamStatsUseCase.Recompute(c.Request().Context(), entity.StatsScopeAll)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

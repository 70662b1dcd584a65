package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/domain/entity"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/response"
	"scamwatch/pkg/utils"
)

type ConsolidatedScamHandler struct {
	consolidationUseCase *usecase.ConsolidationUseCase
	defaultPageSize      int
}

func NewConsolidatedScamHandler(consolidationUseCase *usecase.ConsolidationUseCase, defaultPageSize int) *ConsolidatedScamHandler {
	return &ConsolidatedScamHandler{
		consolidationUseCase: consolidationUseCase,
		defaultPageSize:      defaultPageSize,
	}
}

func (h *ConsolidatedScamHandler) ListConsolidatedScams(c echo.Context) error {
	return h.list(c, c.QueryParam("scamType"))
}

func (h *ConsolidatedScamHandler) ListByType(c echo.Context) error {
	return h.list(c, c.Param("type"))
}

func (h *ConsolidatedScamHandler) list(c echo.Context, scamType string) error {
	params := utils.GetPaginationParams(c, h.defaultPageSize)

	groups, total, err := h.consolidationUseCase.List(
		c.Request().Context(),
		entity.ScamType(strings.ToLower(strings.TrimSpace(scamType))),
		params.Page,
		params.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, groups, total, params.Page, params.PageSize)
}

func (h *ConsolidatedScamHandler) GetConsolidatedScam(c echo.Context) error {
	detail, err := h.consolidationUseCase.GetByID(c.Request().Context(), c.Param("id"), middleware.IdentityFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ConsolidatedScamHandler) VerifyConsolidatedScam(c echo.Context) error {
	group, err := h.consolidationUseCase.Verify(c.Request().Context(), c.Param("id"), middleware.IdentityFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, group)
}

func (h *ConsolidatedScamHandler) Rebuild(c echo.Context) error {
	result, err := h.consolidationUseCase.Rebuild(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

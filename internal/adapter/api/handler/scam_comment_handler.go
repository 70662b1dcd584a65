package handler

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/response"
)

type ScamCommentHandler struct {
	scamCommentUseCase *usecase.ScamCommentUseCase
}

func NewScamCommentHandler(scamCommentUseCase *usecase.ScamCommentUseCase) *ScamCommentHandler {
	return &ScamCommentHandler{
		scamCommentUseCase: scamCommentUseCase,
	}
}

type createCommentRequest struct {
	ScamReportID string `json:"scamReportId" validate:"required"`
	Content      string `json:"content" validate:"required,max=2000"`
}

func (h *ScamCommentHandler) CreateComment(c echo.Context) error {
	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.scamCommentUseCase.Create(c.Request().Context(), middleware.IdentityFrom(c), req.ScamReportID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *ScamCommentHandler) ListComments(c echo.Context) error {
	comments, err := h.scamCommentUseCase.ListByReport(c.Request().Context(), middleware.IdentityFrom(c), c.Param("reportId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, comments)
}

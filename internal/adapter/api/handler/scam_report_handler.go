package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/domain/entity"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/response"
	"scamwatch/pkg/utils"
)

const proofFormField = "proof"

type ScamReportHandler struct {
	scamReportUseCase *usecase.ScamReportUseCase
	maxProofBytes     int64
	defaultPageSize   int
}

func NewScamReportHandler(scamReportUseCase *usecase.ScamReportUseCase, opts Options) *ScamReportHandler {
	return &ScamReportHandler{
		scamReportUseCase: scamReportUseCase,
		maxProofBytes:     opts.MaxProofBytes,
		defaultPageSize:   opts.DefaultPageSize,
	}
}

// createReportRequest binds from JSON or from multipart form fields.
type createReportRequest struct {
	ScamType         string `json:"scamType" form:"scamType" validate:"required,oneof=phone email business"`
	ScamPhoneNumber  string `json:"scamPhoneNumber" form:"scamPhoneNumber" validate:"omitempty,max=64"`
	ScamEmail        string `json:"scamEmail" form:"scamEmail" validate:"omitempty,email"`
	ScamBusinessName string `json:"scamBusinessName" form:"scamBusinessName" validate:"omitempty,max=200"`
	IncidentDate     string `json:"incidentDate" form:"incidentDate" validate:"required"`
	Country          string `json:"country" form:"country" validate:"omitempty,max=100"`
	City             string `json:"city" form:"city" validate:"omitempty,max=100"`
	State            string `json:"state" form:"state" validate:"omitempty,max=100"`
	ZipCode          string `json:"zipCode" form:"zipCode" validate:"omitempty,max=20"`
	Description      string `json:"description" form:"description" validate:"required,max=5000"`
}

func (h *ScamReportHandler) CreateReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	req.ScamType = strings.ToLower(strings.TrimSpace(req.ScamType))

	input := usecase.SubmitReportInput{
		ScamType:         req.ScamType,
		ScamPhoneNumber:  req.ScamPhoneNumber,
		ScamEmail:        req.ScamEmail,
		ScamBusinessName: req.ScamBusinessName,
		IncidentDate:     req.IncidentDate,
		Country:          req.Country,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		Description:      req.Description,
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, reportValidationError(err, input))
	}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		file, err := c.FormFile(proofFormField)
		if err != nil && err != http.ErrMissingFile {
			return response.Error(c, errors.BadRequest("Invalid proof file", err))
		}
		if file != nil {
			if h.maxProofBytes > 0 && file.Size > h.maxProofBytes {
				return response.Error(c, errors.BadRequest(
					fmt.Sprintf("Proof file exceeds the %d MB limit", h.maxProofBytes/(1024*1024)), nil))
			}

			src, err := file.Open()
			if err != nil {
				return response.Error(c, errors.BadRequest("Failed to read proof file", err))
			}
			defer src.Close()

			input.Proof = &usecase.ProofUpload{
				File:     src,
				FileName: file.Filename,
				FileType: file.Header.Get(echo.HeaderContentType),
				Size:     file.Size,
			}
		}
	}

	report, err := h.scamReportUseCase.Submit(c.Request().Context(), middleware.IdentityFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, report)
}

// reportValidationError merges tag failures with the submission rules so the
// client sees every offending field in one response.
func reportValidationError(err error, input usecase.SubmitReportInput) error {
	tagErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := usecase.InvalidReportFields(input)
	for _, fe := range tagErrs {
		if !slices.Contains(fields, fe.Field()) {
			fields = append(fields, fe.Field())
		}
	}
	return errors.Validation("Invalid scam report: "+strings.Join(fields, ", "), fields)
}

func (h *ScamReportHandler) ListReports(c echo.Context) error {
	verification, err := parseVerification(c.QueryParam("isVerified"))
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c, h.defaultPageSize)

	page, err := h.scamReportUseCase.List(c.Request().Context(), middleware.IdentityFrom(c), usecase.ListReportsInput{
		ScamType:     c.QueryParam("scamType"),
		Verification: verification,
		Search:       strings.TrimSpace(c.QueryParam("search")),
		Page:         params.Page,
		Limit:        params.PageSize,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, page)
}

func (h *ScamReportHandler) ListMyReports(c echo.Context) error {
	params := utils.GetPaginationParams(c, h.defaultPageSize)

	page, err := h.scamReportUseCase.Mine(c.Request().Context(), middleware.IdentityFrom(c), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, page)
}

func (h *ScamReportHandler) ListRecentReports(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return response.Error(c, errors.BadRequest("Invalid limit value", err))
		}
		limit = n
	}

	reports, err := h.scamReportUseCase.Recent(c.Request().Context(), middleware.IdentityFrom(c), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reports)
}

func (h *ScamReportHandler) GetReport(c echo.Context) error {
	detail, err := h.scamReportUseCase.Get(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ScamReportHandler) VerifyReport(c echo.Context) error {
	report, err := h.scamReportUseCase.Verify(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ScamReportHandler) PublishReport(c echo.Context) error {
	report, err := h.scamReportUseCase.Publish(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ScamReportHandler) UnpublishReport(c echo.Context) error {
	report, err := h.scamReportUseCase.Unpublish(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

// parseVerification accepts true/false as well as verified/unverified.
func parseVerification(raw string) (entity.VerificationFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return entity.VerificationAny, nil
	case "true", "verified":
		return entity.VerificationVerified, nil
	case "false", "unverified":
		return entity.VerificationUnverified, nil
	}
	return entity.VerificationAny, errors.BadRequest("isVerified must be true or false", nil)
}

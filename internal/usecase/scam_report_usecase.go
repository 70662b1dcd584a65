package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
	"scamwatch/pkg/metrics"
	"scamwatch/pkg/utils"
)

var incidentDateLayouts = []string{time.RFC3339, "2006-01-02"}

type ScamReportUseCase struct {
	reportRepo    repository.ScamReportRepository
	commentRepo   repository.ScamCommentRepository
	userRepo      repository.UserRepository
	consolidation *ConsolidationUseCase
	stats         StatsRefresher
	notifier      service.Notifier
	proofStorage  service.ProofStorage
	now           func() time.Time
}

func NewScamReportUseCase(
	reportRepo repository.ScamReportRepository,
	commentRepo repository.ScamCommentRepository,
	userRepo repository.UserRepository,
	consolidation *ConsolidationUseCase,
	stats StatsRefresher,
	notifier service.Notifier,
	proofStorage service.ProofStorage,
) *ScamReportUseCase {
	if notifier == nil {
		notifier = service.NoopNotifier{}
	}
	return &ScamReportUseCase{
		reportRepo:    reportRepo,
		commentRepo:   commentRepo,
		userRepo:      userRepo,
		consolidation: consolidation,
		stats:         stats,
		notifier:      notifier,
		proofStorage:  proofStorage,
		now:           time.Now,
	}
}

// WithClock overrides the time source, used by tests for deterministic ordering.
func (uc *ScamReportUseCase) WithClock(now func() time.Time) *ScamReportUseCase {
	uc.now = now
	return uc
}

type ProofUpload struct {
	File     io.Reader
	FileName string
	FileType string
	Size     int64
}

type SubmitReportInput struct {
	ScamType         string
	ScamPhoneNumber  string
	ScamEmail        string
	ScamBusinessName string
	IncidentDate     string
	Country          string
	City             string
	State            string
	ZipCode          string
	Description      string
	Proof            *ProofUpload
}

type ListReportsInput struct {
	ScamType     string
	Verification entity.VerificationFilter
	Search       string
	Page         int
	Limit        int
}

type ReportView struct {
	*entity.ScamReport
	Reporter entity.ReporterInfo `json:"reporter"`
}

type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
}

type ReportPage struct {
	Reports    []*ReportView `json:"reports"`
	Pagination Pagination    `json:"pagination"`
}

type ConsolidationInfo struct {
	ID          string `json:"id"`
	Identifier  string `json:"identifier"`
	ReportCount int    `json:"reportCount"`
	IsVerified  bool   `json:"isVerified"`
}

type RecentReport struct {
	ID            string             `json:"id"`
	ScamType      entity.ScamType    `json:"scamType"`
	Identifier    string             `json:"identifier"`
	Description   string             `json:"description"`
	Country       string             `json:"country,omitempty"`
	ReportedAt    time.Time          `json:"reportedAt"`
	IsVerified    bool               `json:"isVerified"`
	HasProof      bool               `json:"hasProof"`
	Consolidation *ConsolidationInfo `json:"consolidation"`
}

type ReportDetail struct {
	*entity.ScamReport
	Reporter      entity.ReporterInfo   `json:"reporter"`
	Comments      []*entity.ScamComment `json:"comments"`
	Consolidation *ConsolidationInfo    `json:"consolidation"`
}

func (uc *ScamReportUseCase) Submit(ctx context.Context, reporter *entity.Identity, input SubmitReportInput) (*entity.ScamReport, error) {
	if reporter == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	report, err := uc.buildReport(input)
	if err != nil {
		return nil, err
	}
	report.ReporterID = reporter.UserID

	var proofObject string
	if input.Proof != nil {
		proof, object, err := uc.storeProof(ctx, input.Proof)
		if err != nil {
			return nil, err
		}
		report.Proof = proof
		proofObject = object
	}

	published := true
	report.IsPublished = &published
	report.ReportedAt = uc.now().UTC()

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		if proofObject != "" {
			if delErr := uc.proofStorage.DeleteFile(ctx, proofObject); delErr != nil {
				logger.WithError(delErr).WithField("object", proofObject).Warn("orphaned proof file")
			}
		}
		return nil, err
	}
	metrics.RecordReportSubmitted(string(report.ScamType))

	// The report stands on its own; a failed consolidation is repaired by a rebuild.
	group, err := uc.consolidation.Consolidate(ctx, report)
	if err != nil {
		logger.WithError(err).WithField("reportId", report.ID).Error("consolidation failed")
	}
	if group == nil {
		uc.stats.Refresh(ctx)
	}

	if err := uc.notifier.NotifyNewReport(ctx, report); err != nil {
		logger.WithError(err).WithField("reportId", report.ID).Warn("new report notification not sent")
	}

	return report, nil
}

// InvalidReportFields lists every submission field that fails the required,
// date or identifier-matches-type rules. ScamType is compared case-insensitively.
func InvalidReportFields(input SubmitReportInput) []string {
	var invalid []string

	scamType := normalizeScamType(input.ScamType)
	if !scamType.Valid() {
		invalid = append(invalid, "scamType")
	}
	if strings.TrimSpace(input.Description) == "" {
		invalid = append(invalid, "description")
	}
	if _, ok := parseIncidentDate(input.IncidentDate); !ok {
		invalid = append(invalid, "incidentDate")
	}

	if scamType.Valid() {
		identifiers := []struct {
			scamType entity.ScamType
			field    string
			value    string
		}{
			{entity.ScamTypePhone, "scamPhoneNumber", input.ScamPhoneNumber},
			{entity.ScamTypeEmail, "scamEmail", input.ScamEmail},
			{entity.ScamTypeBusiness, "scamBusinessName", input.ScamBusinessName},
		}
		for _, id := range identifiers {
			// exactly the field matching scamType must be set
			if (id.scamType == scamType) == (strings.TrimSpace(id.value) == "") {
				invalid = append(invalid, id.field)
			}
		}
	}
	return invalid
}

func normalizeScamType(raw string) entity.ScamType {
	return entity.ScamType(strings.ToLower(strings.TrimSpace(raw)))
}

func (uc *ScamReportUseCase) buildReport(input SubmitReportInput) (*entity.ScamReport, error) {
	if invalid := InvalidReportFields(input); len(invalid) > 0 {
		return nil, errors.Validation("Invalid scam report: "+strings.Join(invalid, ", "), invalid)
	}

	incidentDate, _ := parseIncidentDate(input.IncidentDate)
	return &entity.ScamReport{
		ScamType:         normalizeScamType(input.ScamType),
		ScamPhoneNumber:  strings.TrimSpace(input.ScamPhoneNumber),
		ScamEmail:        strings.TrimSpace(input.ScamEmail),
		ScamBusinessName: strings.TrimSpace(input.ScamBusinessName),
		IncidentDate:     incidentDate,
		Country:          strings.TrimSpace(input.Country),
		City:             strings.TrimSpace(input.City),
		State:            strings.TrimSpace(input.State),
		ZipCode:          strings.TrimSpace(input.ZipCode),
		Description:      strings.TrimSpace(input.Description),
	}, nil
}

func parseIncidentDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range incidentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (uc *ScamReportUseCase) storeProof(ctx context.Context, proof *ProofUpload) (*entity.ProofFile, string, error) {
	if uc.proofStorage == nil {
		return nil, "", errors.BadRequest("Proof uploads are not enabled", nil)
	}

	result, err := uc.proofStorage.UploadFile(ctx, proof.File, proof.FileType, proof.FileName, "proofs")
	if err != nil {
		return nil, "", errors.Internal("Failed to store proof file", err)
	}

	size := result.Size
	if size == 0 {
		size = proof.Size
	}
	return &entity.ProofFile{
		Path:     result.URL,
		FileName: proof.FileName,
		FileType: proof.FileType,
		FileSize: size,
	}, result.ObjectName, nil
}

// List applies role gating: non-admin viewers only ever see published reports.
func (uc *ScamReportUseCase) List(ctx context.Context, viewer *entity.Identity, input ListReportsInput) (*ReportPage, error) {
	filter := entity.ScamReportFilter{
		Verification:  input.Verification,
		Search:        input.Search,
		PublishedOnly: !viewer.IsAdmin(),
	}
	if input.ScamType != "" {
		filter.ScamType = entity.ScamType(strings.ToLower(input.ScamType))
		if !filter.ScamType.Valid() {
			return nil, errors.BadRequest("Invalid scam type", nil)
		}
	}

	return uc.page(ctx, filter, input.Page, input.Limit)
}

// Mine lists the caller's own reports, unpublished ones included.
func (uc *ScamReportUseCase) Mine(ctx context.Context, reporter *entity.Identity, page, limit int) (*ReportPage, error) {
	if reporter == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return uc.page(ctx, entity.ScamReportFilter{ReporterID: reporter.UserID}, page, limit)
}

func (uc *ScamReportUseCase) page(ctx context.Context, filter entity.ScamReportFilter, page, limit int) (*ReportPage, error) {
	params := utils.NewPaginationParams(page, limit, limit)

	reports, total, err := uc.reportRepo.List(ctx, filter, params.PageSize, params.Offset)
	if err != nil {
		return nil, err
	}

	views, err := uc.withReporters(ctx, reports)
	if err != nil {
		return nil, err
	}

	totalPages := utils.TotalPages(total, params.PageSize)
	return &ReportPage{
		Reports: views,
		Pagination: Pagination{
			Page:        params.Page,
			Limit:       params.PageSize,
			TotalCount:  total,
			TotalPages:  totalPages,
			HasNextPage: params.Page < totalPages,
		},
	}, nil
}

func (uc *ScamReportUseCase) withReporters(ctx context.Context, reports []*entity.ScamReport) ([]*ReportView, error) {
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReporterID)
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, &ReportView{ScamReport: r, Reporter: reporterInfo(users[r.ReporterID], r.ReporterID)})
	}
	return views, nil
}

func reporterInfo(user *entity.User, id string) entity.ReporterInfo {
	if user == nil {
		user = &entity.User{ID: id}
	}
	return user.ReporterInfo()
}

func (uc *ScamReportUseCase) Recent(ctx context.Context, viewer *entity.Identity, limit int) ([]*RecentReport, error) {
	params := utils.NewPaginationParams(1, limit, 10)
	reports, _, err := uc.reportRepo.List(ctx, entity.ScamReportFilter{PublishedOnly: !viewer.IsAdmin()}, params.PageSize, 0)
	if err != nil {
		return nil, err
	}

	out := make([]*RecentReport, 0, len(reports))
	for _, r := range reports {
		info, err := uc.consolidationInfo(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &RecentReport{
			ID:            r.ID,
			ScamType:      r.ScamType,
			Identifier:    service.ExtractIdentifier(r),
			Description:   r.Description,
			Country:       r.Country,
			ReportedAt:    r.ReportedAt,
			IsVerified:    r.IsVerified,
			HasProof:      r.HasProof(),
			Consolidation: info,
		})
	}
	return out, nil
}

func (uc *ScamReportUseCase) consolidationInfo(ctx context.Context, reportID string) (*ConsolidationInfo, error) {
	group, err := uc.consolidation.GroupForReport(ctx, reportID)
	if err != nil || group == nil {
		return nil, err
	}
	return &ConsolidationInfo{
		ID:          group.ID,
		Identifier:  group.Identifier,
		ReportCount: group.ReportCount,
		IsVerified:  group.IsVerified,
	}, nil
}

// Get returns the full detail. Unpublished reports are forbidden to anyone
// but admins and their reporter.
func (uc *ScamReportUseCase) Get(ctx context.Context, viewer *entity.Identity, id string) (*ReportDetail, error) {
	report, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.VisibleTo(viewer) {
		return nil, errors.Forbidden("This report is not available", nil)
	}

	comments, err := uc.commentRepo.ListByReport(ctx, id)
	if err != nil {
		return nil, err
	}

	info, err := uc.consolidationInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	users, err := uc.userRepo.GetByIDs(ctx, []string{report.ReporterID})
	if err != nil {
		return nil, err
	}

	return &ReportDetail{
		ScamReport:    report,
		Reporter:      reporterInfo(users[report.ReporterID], report.ReporterID),
		Comments:      comments,
		Consolidation: info,
	}, nil
}

// Verify is idempotent and propagates to the report's consolidated scam.
func (uc *ScamReportUseCase) Verify(ctx context.Context, admin *entity.Identity, id string) (*entity.ScamReport, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	report, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := !report.IsVerified
	if changed {
		now := uc.now().UTC()
		adminID := admin.UserID
		report.IsVerified = true
		report.VerifiedBy = &adminID
		report.VerifiedAt = &now

		if err := uc.reportRepo.Update(ctx, report); err != nil {
			return nil, err
		}
		metrics.RecordTransition("verify")
	}

	// Runs on repeat calls too, so a group left unverified by a failed
	// earlier attempt catches up.
	if _, err := uc.consolidation.PropagateVerification(ctx, report.ID); err != nil {
		return nil, err
	}

	if changed {
		uc.stats.Refresh(ctx)
	}
	return report, nil
}

func (uc *ScamReportUseCase) Publish(ctx context.Context, admin *entity.Identity, id string) (*entity.ScamReport, error) {
	return uc.setPublished(ctx, admin, id, true)
}

func (uc *ScamReportUseCase) Unpublish(ctx context.Context, admin *entity.Identity, id string) (*entity.ScamReport, error) {
	return uc.setPublished(ctx, admin, id, false)
}

func (uc *ScamReportUseCase) setPublished(ctx context.Context, admin *entity.Identity, id string, published bool) (*entity.ScamReport, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	report, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	adminID := admin.UserID
	report.IsPublished = &published
	report.PublishedBy = &adminID
	report.PublishedAt = &now

	if err := uc.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	action := "unpublish"
	if published {
		action = "publish"
	}
	metrics.RecordTransition(action)
	logger.WithFields(logger.Fields{"reportId": id, "adminId": adminID, "action": action}).Info("report visibility changed")

	uc.stats.Refresh(ctx)
	return report, nil
}

func requireAdmin(identity *entity.Identity) error {
	if identity == nil {
		return errors.Unauthorized("Authentication required", nil)
	}
	if !identity.IsAdmin() {
		return errors.Forbidden(fmt.Sprintf("Admin privileges required for user %s", identity.UserID), nil)
	}
	return nil
}

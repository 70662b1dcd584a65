package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/pkg/errors"
)

const reportColumns = `id, reporter_id, scam_type, scam_phone_number, phone_digits, scam_email,
	scam_business_name, incident_date, country, city, state, zip_code, description,
	proof_path, proof_file_name, proof_file_type, proof_file_size, reported_at,
	is_verified, verified_by, verified_at, is_published, published_by, published_at`

type reportRow struct {
	ID               string         `db:"id"`
	ReporterID       string         `db:"reporter_id"`
	ScamType         string         `db:"scam_type"`
	ScamPhoneNumber  string         `db:"scam_phone_number"`
	PhoneDigits      string         `db:"phone_digits"`
	ScamEmail        string         `db:"scam_email"`
	ScamBusinessName string         `db:"scam_business_name"`
	IncidentDate     int64          `db:"incident_date"`
	Country          string         `db:"country"`
	City             string         `db:"city"`
	State            string         `db:"state"`
	ZipCode          string         `db:"zip_code"`
	Description      string         `db:"description"`
	ProofPath        string         `db:"proof_path"`
	ProofFileName    string         `db:"proof_file_name"`
	ProofFileType    string         `db:"proof_file_type"`
	ProofFileSize    int64          `db:"proof_file_size"`
	ReportedAt       int64          `db:"reported_at"`
	IsVerified       bool           `db:"is_verified"`
	VerifiedBy       sql.NullString `db:"verified_by"`
	VerifiedAt       sql.NullInt64  `db:"verified_at"`
	IsPublished      sql.NullBool   `db:"is_published"`
	PublishedBy      sql.NullString `db:"published_by"`
	PublishedAt      sql.NullInt64  `db:"published_at"`
}

func newReportRow(r *entity.ScamReport) *reportRow {
	row := &reportRow{
		ID:               r.ID,
		ReporterID:       r.ReporterID,
		ScamType:         string(r.ScamType),
		ScamPhoneNumber:  r.ScamPhoneNumber,
		PhoneDigits:      service.DigitsOnly(r.ScamPhoneNumber),
		ScamEmail:        r.ScamEmail,
		ScamBusinessName: r.ScamBusinessName,
		IncidentDate:     toNanos(r.IncidentDate),
		Country:          r.Country,
		City:             r.City,
		State:            r.State,
		ZipCode:          r.ZipCode,
		Description:      r.Description,
		ReportedAt:       toNanos(r.ReportedAt),
		IsVerified:       r.IsVerified,
		VerifiedBy:       nullString(r.VerifiedBy),
		VerifiedAt:       nullNanos(r.VerifiedAt),
		PublishedBy:      nullString(r.PublishedBy),
		PublishedAt:      nullNanos(r.PublishedAt),
	}
	if r.Proof != nil {
		row.ProofPath = r.Proof.Path
		row.ProofFileName = r.Proof.FileName
		row.ProofFileType = r.Proof.FileType
		row.ProofFileSize = r.Proof.FileSize
	}
	if r.IsPublished != nil {
		row.IsPublished = sql.NullBool{Bool: *r.IsPublished, Valid: true}
	}
	return row
}

func (row *reportRow) entity() *entity.ScamReport {
	r := &entity.ScamReport{
		ID:               row.ID,
		ReporterID:       row.ReporterID,
		ScamType:         entity.ScamType(row.ScamType),
		ScamPhoneNumber:  row.ScamPhoneNumber,
		ScamEmail:        row.ScamEmail,
		ScamBusinessName: row.ScamBusinessName,
		IncidentDate:     fromNanos(row.IncidentDate),
		Country:          row.Country,
		City:             row.City,
		State:            row.State,
		ZipCode:          row.ZipCode,
		Description:      row.Description,
		ReportedAt:       fromNanos(row.ReportedAt),
		IsVerified:       row.IsVerified,
		VerifiedBy:       stringPtr(row.VerifiedBy),
		VerifiedAt:       timePtr(row.VerifiedAt),
		PublishedBy:      stringPtr(row.PublishedBy),
		PublishedAt:      timePtr(row.PublishedAt),
	}
	if row.ProofPath != "" {
		r.Proof = &entity.ProofFile{
			Path:     row.ProofPath,
			FileName: row.ProofFileName,
			FileType: row.ProofFileType,
			FileSize: row.ProofFileSize,
		}
	}
	if row.IsPublished.Valid {
		published := row.IsPublished.Bool
		r.IsPublished = &published
	}
	return r
}

type scamReportRepository struct {
	client *Client
}

func NewScamReportRepository(client *Client) repository.ScamReportRepository {
	return &scamReportRepository{client: client}
}

func (r *scamReportRepository) Create(ctx context.Context, report *entity.ScamReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	query := `INSERT INTO scam_reports (` + reportColumns + `) VALUES (
		:id, :reporter_id, :scam_type, :scam_phone_number, :phone_digits, :scam_email,
		:scam_business_name, :incident_date, :country, :city, :state, :zip_code, :description,
		:proof_path, :proof_file_name, :proof_file_type, :proof_file_size, :reported_at,
		:is_verified, :verified_by, :verified_at, :is_published, :published_by, :published_at)`
	_, err := r.client.db.NamedExecContext(ctx, query, newReportRow(report))
	return err
}

func (r *scamReportRepository) GetByID(ctx context.Context, id string) (*entity.ScamReport, error) {
	var row reportRow
	err := r.client.db.GetContext(ctx, &row, `SELECT `+reportColumns+` FROM scam_reports WHERE id = ?`, id)
	if err != nil {
		return nil, notFound("Scam report", err)
	}
	return row.entity(), nil
}

func (r *scamReportRepository) List(ctx context.Context, filter entity.ScamReportFilter, limit, offset int) ([]*entity.ScamReport, int64, error) {
	where, args := reportWhere(filter)

	var total int64
	if err := r.client.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM scam_reports`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reportColumns + ` FROM scam_reports` + where + ` ORDER BY reported_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []reportRow
	if err := r.client.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return reportEntities(rows), total, nil
}

func (r *scamReportRepository) ListAll(ctx context.Context) ([]*entity.ScamReport, error) {
	var rows []reportRow
	err := r.client.db.SelectContext(ctx, &rows, `SELECT `+reportColumns+` FROM scam_reports ORDER BY reported_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return reportEntities(rows), nil
}

func (r *scamReportRepository) Update(ctx context.Context, report *entity.ScamReport) error {
	query := `UPDATE scam_reports SET
		scam_type = :scam_type, scam_phone_number = :scam_phone_number, phone_digits = :phone_digits,
		scam_email = :scam_email, scam_business_name = :scam_business_name, incident_date = :incident_date,
		country = :country, city = :city, state = :state, zip_code = :zip_code, description = :description,
		proof_path = :proof_path, proof_file_name = :proof_file_name, proof_file_type = :proof_file_type,
		proof_file_size = :proof_file_size, is_verified = :is_verified, verified_by = :verified_by,
		verified_at = :verified_at, is_published = :is_published, published_by = :published_by,
		published_at = :published_at
		WHERE id = :id`
	res, err := r.client.db.NamedExecContext(ctx, query, newReportRow(report))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("Scam report", nil)
	}
	return nil
}

func reportEntities(rows []reportRow) []*entity.ScamReport {
	reports := make([]*entity.ScamReport, 0, len(rows))
	for i := range rows {
		reports = append(reports, rows[i].entity())
	}
	return reports
}

// reportWhere mirrors service.MatchesFilter in SQL.
func reportWhere(filter entity.ScamReportFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.PublishedOnly {
		conds = append(conds, `(is_published IS NULL OR is_published = 1)`)
	}
	if filter.ScamType != "" {
		conds = append(conds, `scam_type = ?`)
		args = append(args, string(filter.ScamType))
	}
	if filter.ReporterID != "" {
		conds = append(conds, `reporter_id = ?`)
		args = append(args, filter.ReporterID)
	}
	switch filter.Verification {
	case entity.VerificationVerified:
		conds = append(conds, `is_verified = 1`)
	case entity.VerificationUnverified:
		conds = append(conds, `is_verified = 0`)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		fields := []string{
			"scam_phone_number", "scam_email", "scam_business_name",
			"description", "country", "city", "state", "zip_code",
		}
		var ors []string
		for _, f := range fields {
			ors = append(ors, `lower(`+f+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		if digits := service.PhoneQueryDigits(search); digits != "" {
			ors = append(ors, `(phone_digits <> '' AND phone_digits LIKE ?)`)
			args = append(args, "%"+digits+"%")
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

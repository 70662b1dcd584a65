package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
)

type commentRow struct {
	ID        string `db:"id"`
	ReportID  string `db:"report_id"`
	AuthorID  string `db:"author_id"`
	Content   string `db:"content"`
	CreatedAt int64  `db:"created_at"`
}

type scamCommentRepository struct {
	client *Client
}

func NewScamCommentRepository(client *Client) repository.ScamCommentRepository {
	return &scamCommentRepository{client: client}
}

func (r *scamCommentRepository) Create(ctx context.Context, comment *entity.ScamComment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	_, err := r.client.db.NamedExecContext(ctx,
		`INSERT INTO scam_comments (id, report_id, author_id, content, created_at)
		VALUES (:id, :report_id, :author_id, :content, :created_at)`,
		&commentRow{
			ID:        comment.ID,
			ReportID:  comment.ReportID,
			AuthorID:  comment.AuthorID,
			Content:   comment.Content,
			CreatedAt: toNanos(comment.CreatedAt),
		})
	return err
}

func (r *scamCommentRepository) ListByReport(ctx context.Context, reportID string) ([]*entity.ScamComment, error) {
	var rows []commentRow
	err := r.client.db.SelectContext(ctx, &rows,
		`SELECT id, report_id, author_id, content, created_at FROM scam_comments
		WHERE report_id = ? ORDER BY created_at ASC, id ASC`, reportID)
	if err != nil {
		return nil, err
	}

	comments := make([]*entity.ScamComment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, &entity.ScamComment{
			ID:        row.ID,
			ReportID:  row.ReportID,
			AuthorID:  row.AuthorID,
			Content:   row.Content,
			CreatedAt: fromNanos(row.CreatedAt),
		})
	}
	return comments, nil
}

type statsRow struct {
	Scope            string `db:"scope"`
	TotalReports     int    `db:"total_reports"`
	PhoneScams       int    `db:"phone_scams"`
	EmailScams       int    `db:"email_scams"`
	BusinessScams    int    `db:"business_scams"`
	ReportsWithProof int    `db:"reports_with_proof"`
	VerifiedReports  int    `db:"verified_reports"`
	UpdatedAt        int64  `db:"updated_at"`
}

type scamStatsRepository struct {
	client *Client
}

func NewScamStatsRepository(client *Client) repository.ScamStatsRepository {
	return &scamStatsRepository{client: client}
}

func (r *scamStatsRepository) Save(ctx context.Context, stats *entity.ScamStats) error {
	query := `
		INSERT INTO scam_stats (scope, total_reports, phone_scams, email_scams, business_scams,
			reports_with_proof, verified_reports, updated_at)
		VALUES (:scope, :total_reports, :phone_scams, :email_scams, :business_scams,
			:reports_with_proof, :verified_reports, :updated_at)
		ON CONFLICT(scope) DO UPDATE SET
			total_reports=excluded.total_reports,
			phone_scams=excluded.phone_scams,
			email_scams=excluded.email_scams,
			business_scams=excluded.business_scams,
			reports_with_proof=excluded.reports_with_proof,
			verified_reports=excluded.verified_reports,
			updated_at=excluded.updated_at;
	`
	_, err := r.client.db.NamedExecContext(ctx, query, &statsRow{
		Scope:            string(stats.Scope),
		TotalReports:     stats.TotalReports,
		PhoneScams:       stats.PhoneScams,
		EmailScams:       stats.EmailScams,
		BusinessScams:    stats.BusinessScams,
		ReportsWithProof: stats.ReportsWithProof,
		VerifiedReports:  stats.VerifiedReports,
		UpdatedAt:        toNanos(stats.UpdatedAt),
	})
	return err
}

func (r *scamStatsRepository) Latest(ctx context.Context, scope entity.StatsScope) (*entity.ScamStats, error) {
	var row statsRow
	err := r.client.db.GetContext(ctx, &row, `SELECT scope, total_reports, phone_scams, email_scams,
		business_scams, reports_with_proof, verified_reports, updated_at FROM scam_stats WHERE scope = ?`, string(scope))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity.ScamStats{
		Scope:            entity.StatsScope(row.Scope),
		TotalReports:     row.TotalReports,
		PhoneScams:       row.PhoneScams,
		EmailScams:       row.EmailScams,
		BusinessScams:    row.BusinessScams,
		ReportsWithProof: row.ReportsWithProof,
		VerifiedReports:  row.VerifiedReports,
		UpdatedAt:        fromNanos(row.UpdatedAt),
	}, nil
}

type userRow struct {
	ID          string `db:"id"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
	Role        string `db:"role"`
	CreatedAt   int64  `db:"created_at"`
	UpdatedAt   int64  `db:"updated_at"`
}

func (row *userRow) entity() *entity.User {
	return &entity.User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Role:        row.Role,
		CreatedAt:   fromNanos(row.CreatedAt),
		UpdatedAt:   fromNanos(row.UpdatedAt),
	}
}

type userRepository struct {
	client *Client
}

func NewUserRepository(client *Client) repository.UserRepository {
	return &userRepository{client: client}
}

// Upsert refreshes profile fields but never touches the stored role.
func (r *userRepository) Upsert(ctx context.Context, user *entity.User) (*entity.User, error) {
	role := user.Role
	if role == "" {
		role = entity.RoleUser
	}
	now := toNanos(time.Now())

	query := `
		INSERT INTO users (id, email, display_name, role, created_at, updated_at)
		VALUES (:id, :email, :display_name, :role, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			email=CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
			display_name=CASE WHEN excluded.display_name <> '' THEN excluded.display_name ELSE users.display_name END,
			updated_at=excluded.updated_at;
	`
	_, err := r.client.db.NamedExecContext(ctx, query, &userRow{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var row userRow
	err := r.client.db.GetContext(ctx, &row,
		`SELECT id, email, display_name, role, created_at, updated_at FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, notFound("User", err)
	}
	return row.entity(), nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT id, email, display_name, role, created_at, updated_at FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := r.client.db.SelectContext(ctx, &rows, r.client.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for i := range rows {
		users[rows[i].ID] = rows[i].entity()
	}
	return users, nil
}

func (r *userRepository) SetRole(ctx context.Context, id, role string) error {
	now := toNanos(time.Now())
	_, err := r.client.db.ExecContext(ctx, `
		INSERT INTO users (id, role, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET role=excluded.role, updated_at=excluded.updated_at`,
		id, role, now, now)
	return err
}

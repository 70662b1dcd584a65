package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
)

const groupColumns = `id, match_key, scam_type, identifier, report_count, first_reported_at, last_reported_at, is_verified`

type groupRow struct {
	ID              string `db:"id"`
	MatchKey        string `db:"match_key"`
	ScamType        string `db:"scam_type"`
	Identifier      string `db:"identifier"`
	ReportCount     int    `db:"report_count"`
	FirstReportedAt int64  `db:"first_reported_at"`
	LastReportedAt  int64  `db:"last_reported_at"`
	IsVerified      bool   `db:"is_verified"`
}

func newGroupRow(g *entity.ConsolidatedScam) *groupRow {
	return &groupRow{
		ID:              g.ID,
		MatchKey:        g.MatchKey,
		ScamType:        string(g.ScamType),
		Identifier:      g.Identifier,
		ReportCount:     g.ReportCount,
		FirstReportedAt: toNanos(g.FirstReportedAt),
		LastReportedAt:  toNanos(g.LastReportedAt),
		IsVerified:      g.IsVerified,
	}
}

func (row *groupRow) entity() *entity.ConsolidatedScam {
	return &entity.ConsolidatedScam{
		ID:              row.ID,
		MatchKey:        row.MatchKey,
		ScamType:        entity.ScamType(row.ScamType),
		Identifier:      row.Identifier,
		ReportCount:     row.ReportCount,
		FirstReportedAt: fromNanos(row.FirstReportedAt),
		LastReportedAt:  fromNanos(row.LastReportedAt),
		IsVerified:      row.IsVerified,
	}
}

type consolidationRepository struct {
	client *Client
}

func NewConsolidationRepository(client *Client) repository.ConsolidationRepository {
	return &consolidationRepository{client: client}
}

func (r *consolidationRepository) Consolidate(ctx context.Context, matchKey, reportID string, mutate repository.MutateFunc) (*entity.ConsolidatedScam, error) {
	var group *entity.ConsolidatedScam

	err := r.client.withTx(ctx, func(tx *sqlx.Tx) error {
		var linked int
		if err := tx.GetContext(ctx, &linked, `SELECT COUNT(*) FROM report_consolidations WHERE report_id = ?`, reportID); err != nil {
			return err
		}
		if linked > 0 {
			return repository.ErrAlreadyLinked
		}

		var existing *entity.ConsolidatedScam
		var row groupRow
		err := tx.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM consolidated_scams WHERE match_key = ?`, matchKey)
		switch {
		case err == nil:
			existing = row.entity()
		case !stderrors.Is(err, sql.ErrNoRows):
			return err
		}

		next, err := mutate(existing)
		if err != nil {
			return err
		}
		next.MatchKey = matchKey

		if existing == nil {
			next.ID = uuid.New().String()
			_, err = tx.NamedExecContext(ctx, `INSERT INTO consolidated_scams (`+groupColumns+`) VALUES
				(:id, :match_key, :scam_type, :identifier, :report_count, :first_reported_at, :last_reported_at, :is_verified)`,
				newGroupRow(next))
		} else {
			next.ID = existing.ID
			_, err = tx.NamedExecContext(ctx, `UPDATE consolidated_scams SET
				identifier = :identifier, report_count = :report_count, first_reported_at = :first_reported_at,
				last_reported_at = :last_reported_at, is_verified = :is_verified
				WHERE id = :id`, newGroupRow(next))
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO report_consolidations (id, report_id, consolidated_scam_id) VALUES (?, ?, ?)`,
			uuid.New().String(), reportID, next.ID)
		if err != nil {
			return err
		}

		group = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *consolidationRepository) GetByID(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	var row groupRow
	if err := r.client.db.GetContext(ctx, &row, `SELECT `+groupColumns+` FROM consolidated_scams WHERE id = ?`, id); err != nil {
		return nil, notFound("Consolidated scam", err)
	}
	return row.entity(), nil
}

func (r *consolidationRepository) GetByReportID(ctx context.Context, reportID string) (*entity.ConsolidatedScam, error) {
	var row groupRow
	err := r.client.db.GetContext(ctx, &row, `SELECT c.id, c.match_key, c.scam_type, c.identifier, c.report_count,
		c.first_reported_at, c.last_reported_at, c.is_verified
		FROM consolidated_scams c
		JOIN report_consolidations l ON l.consolidated_scam_id = c.id
		WHERE l.report_id = ?`, reportID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.entity(), nil
}

func (r *consolidationRepository) List(ctx context.Context, scamType entity.ScamType, limit, offset int) ([]*entity.ConsolidatedScam, int64, error) {
	where := ""
	var args []interface{}
	if scamType != "" {
		where = ` WHERE scam_type = ?`
		args = append(args, string(scamType))
	}

	var total int64
	if err := r.client.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM consolidated_scams`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + groupColumns + ` FROM consolidated_scams` + where + ` ORDER BY last_reported_at DESC, id ASC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []groupRow
	if err := r.client.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	groups := make([]*entity.ConsolidatedScam, 0, len(rows))
	for i := range rows {
		groups = append(groups, rows[i].entity())
	}
	return groups, total, nil
}

func (r *consolidationRepository) ListReportIDs(ctx context.Context, consolidatedScamID string) ([]string, error) {
	var ids []string
	err := r.client.db.SelectContext(ctx, &ids,
		`SELECT report_id FROM report_consolidations WHERE consolidated_scam_id = ? ORDER BY report_id`, consolidatedScamID)
	return ids, err
}

func (r *consolidationRepository) MarkVerified(ctx context.Context, id string) (*entity.ConsolidatedScam, error) {
	res, err := r.client.db.ExecContext(ctx, `UPDATE consolidated_scams SET is_verified = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.NotFound("Consolidated scam", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *consolidationRepository) Reset(ctx context.Context) error {
	return r.client.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM report_consolidations`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM consolidated_scams`)
		return err
	})
}

package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/entity"
)

const uniqueViolation = "23505"

type LeadRepository struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewLeadRepository(db *sql.DB, logger *zap.Logger) *LeadRepository {
	return &LeadRepository{DB: db, Logger: logger}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.City,
		lead.State,
		lead.Source,
		lead.Status,
		lead.Score,
		lead.LeadValue,
		lead.LastActivityAt,
		lead.IsQualified,
		lead.Notes,
		lead.AssignedTo,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return r.writeError("create lead", lead.ID, err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	args := queryArgs{}
	query := `SELECT EXISTS (SELECT 1 FROM leads WHERE email = ` + args.add(email)
	if excludeID != "" {
		query += ` AND id <> ` + args.add(excludeID)
	}
	query += `)`

	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *LeadRepository) Find(ctx context.Context, q entity.LeadQuery) ([]entity.Lead, error) {
	args := queryArgs{}
	query := `SELECT ` + leadColumns + ` FROM leads` + buildWhere(q.Filter, &args) + buildOrderBy(q.Sort)
	query += ` LIMIT ` + args.add(q.Limit) + ` OFFSET ` + args.add(q.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0, q.Limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Count(ctx context.Context, f entity.LeadFilter) (int, error) {
	args := queryArgs{}
	query := `SELECT COUNT(*) FROM leads` + buildWhere(f, &args)

	var total int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Each streams matching rows to fn in sort order. An error from fn stops
// the scan and is returned unchanged.
func (r *LeadRepository) Each(ctx context.Context, f entity.LeadFilter, s entity.LeadSort, fn func(*entity.Lead) error) error {
	args := queryArgs{}
	query := `SELECT ` + leadColumns + ` FROM leads` + buildWhere(f, &args) + buildOrderBy(s)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return err
		}
		if err := fn(lead); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			first_name = $2, last_name = $3, email = $4, phone = $5, company = $6,
			city = $7, state = $8, source = $9, status = $10, score = $11,
			lead_value = $12, last_activity_at = $13, is_qualified = $14, notes = $15,
			assigned_to = $16, updated_at = $17
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.City,
		lead.State,
		lead.Source,
		lead.Status,
		lead.Score,
		lead.LeadValue,
		lead.LastActivityAt,
		lead.IsQualified,
		lead.Notes,
		lead.AssignedTo,
		lead.UpdatedAt,
	)
	if err != nil {
		return r.writeError("update lead", lead.ID, err)
	}
	return requireAffected(res)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *LeadRepository) writeError(op, id string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entity.ErrEmailAlreadyExists
	}
	r.Logger.Error("database write failed", zap.String("op", op), zap.String("lead_id", id), zap.Error(err))
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l            entity.Lead
		lastActivity sql.NullTime
		assignedTo   sql.NullString
	)
	err := row.Scan(
		&l.ID,
		&l.FirstName,
		&l.LastName,
		&l.Email,
		&l.Phone,
		&l.Company,
		&l.City,
		&l.State,
		&l.Source,
		&l.Status,
		&l.Score,
		&l.LeadValue,
		&lastActivity,
		&l.IsQualified,
		&l.Notes,
		&assignedTo,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	if lastActivity.Valid {
		t := lastActivity.Time.UTC()
		l.LastActivityAt = &t
	}
	if assignedTo.Valid {
		l.AssignedTo = &assignedTo.String
	}
	return &l, nil
}

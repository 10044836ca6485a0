package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/spinnata-waitlist/internal/entity"
)

var ErrLeadNotFound = errors.New("lead not found")

var _ entity.LeadRepositoryInterface = (*LeadRepository)(nil)

type LeadRepository struct {
	DB *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// leadRow mirrors the leads table; timestamps go through dbTime because
// SQLite hands them back as text.
type leadRow struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	Source    sql.NullString `db:"source"`
	Campaign  sql.NullString `db:"campaign"`
	UserAgent sql.NullString `db:"ua"`
	IP        sql.NullString `db:"ip"`
	CreatedAt dbTime         `db:"created_at"`
	UpdatedAt dbTime         `db:"updated_at"`
}

func (r leadRow) toEntity() *entity.Lead {
	return &entity.Lead{
		ID:        r.ID,
		Email:     r.Email,
		Source:    fromNullString(r.Source),
		Campaign:  fromNullString(r.Campaign),
		UserAgent: fromNullString(r.UserAgent),
		IP:        fromNullString(r.IP),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

// Upsert inserts the lead or, when the email already exists, overwrites its
// attribution fields. A single INSERT ... ON CONFLICT keeps it atomic.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := r.DB.Rebind(`
		INSERT INTO leads (id, email, source, campaign, ua, ip, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email)
		DO UPDATE SET
			source = excluded.source,
			campaign = excluded.campaign,
			ua = excluded.ua,
			ip = excluded.ip,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`)

	now := time.Now().UTC()
	var createdAt, updatedAt dbTime

	err := r.DB.QueryRowxContext(
		ctx,
		query,
		uuid.New().String(),
		lead.Email,
		toNullString(lead.Source),
		toNullString(lead.Campaign),
		toNullString(lead.UserAgent),
		toNullString(lead.IP),
		now,
		now,
	).Scan(
		&lead.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting lead: %w", err)
	}

	lead.CreatedAt = createdAt.Time
	lead.UpdatedAt = updatedAt.Time
	return nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := r.DB.Rebind(`
		SELECT id, email, source, campaign, ua, ip, created_at, updated_at
		FROM leads
		WHERE email = ?
	`)

	var row leadRow
	if err := r.DB.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("finding lead by email: %w", err)
	}

	return row.toEntity(), nil
}

func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM leads`); err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}
	return n, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

package hospital

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebook/carebook/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, name, email, password_hash, phone, address, created_at, updated_at`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Email, &h.PasswordHash, &h.Phone, &h.Address,
		&h.CreatedAt, &h.UpdatedAt)
	return &h, err
}

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospital (id, name, email, password_hash, phone, address)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		h.ID, h.Name, h.Email, h.PasswordHash, h.Phone, h.Address)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := scanHospital(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM hospital WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return h, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Hospital, error) {
	h, err := scanHospital(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM hospital WHERE email = $1`, email))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return h, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM hospital ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*Hospital, int, error) {
	filter := ` FROM hospital h WHERE EXISTS (
		SELECT 1 FROM doctor d WHERE d.hospital_id = h.id AND d.specialization = $1)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+filter, specialization).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT h.id, h.name, h.email, h.password_hash, h.phone, h.address, h.created_at, h.updated_at`+
			filter+` ORDER BY h.name LIMIT $2 OFFSET $3`,
		specialization, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Hospital, int, error) {
	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}

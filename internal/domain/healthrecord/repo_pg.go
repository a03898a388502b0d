package healthrecord

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebook/carebook/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, patient_id, file_path, file_name, content_type, size_bytes, uploaded_at`

func scanRecord(row pgx.Row) (*HealthRecord, error) {
	var r HealthRecord
	err := row.Scan(&r.ID, &r.PatientID, &r.FilePath, &r.FileName, &r.ContentType,
		&r.SizeBytes, &r.UploadedAt)
	return &r, err
}

func (r *repoPG) Create(ctx context.Context, rec *HealthRecord) error {
	rec.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO health_record (id, patient_id, file_path, file_name, content_type, size_bytes)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING uploaded_at`,
		rec.ID, rec.PatientID, rec.FilePath, rec.FileName, rec.ContentType, rec.SizeBytes,
	).Scan(&rec.UploadedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+cols+` FROM health_record WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM health_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+cols+` FROM health_record WHERE patient_id = $1
		 ORDER BY uploaded_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	filter := ` FROM health_record hr WHERE EXISTS (
		SELECT 1 FROM appointment a
		WHERE a.patient_id = hr.patient_id AND a.doctor_id = $1 AND a.status <> 'rejected')`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+filter, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT hr.id, hr.patient_id, hr.file_path, hr.file_name, hr.content_type, hr.size_bytes, hr.uploaded_at`+
			filter+` ORDER BY hr.uploaded_at DESC LIMIT $2 OFFSET $3`,
		doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM health_record WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows, total int) ([]*HealthRecord, int, error) {
	var items []*HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

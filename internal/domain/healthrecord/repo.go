package healthrecord

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *HealthRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthRecord, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error)
	// ListByDoctor returns records of patients holding a non-rejected
	// appointment with the doctor.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Doctor, int, error)
	// ListByHospitalAndSpecialization drives the discovery endpoint that
	// filters on both keys at once.
	ListByHospitalAndSpecialization(ctx context.Context, hospitalID uuid.UUID, specialization string, limit, offset int) ([]*Doctor, int, error)
	// Specializations returns the distinct specializations across all
	// doctors, sorted.
	Specializations(ctx context.Context) ([]string, error)
	SpecializationsByHospital(ctx context.Context, hospitalID uuid.UUID) ([]string, error)
	// Delete removes a doctor scoped to its owning hospital. A doctor id
	// belonging to another hospital deletes nothing.
	Delete(ctx context.Context, hospitalID, doctorID uuid.UUID) error
}

package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByEmail(ctx context.Context, email string) (*Hospital, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	// ListBySpecialization returns hospitals employing at least one doctor
	// with the given specialization.
	ListBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*Hospital, int, error)
}

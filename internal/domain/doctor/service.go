package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("doctor not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

// CreateInput is the payload a hospital submits when adding a doctor.
// The owning hospital is taken from the authenticated actor, never from
// the body.
type CreateInput struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Specialization string   `json:"specialization"`
	AvailableSlots []string `json:"available_slots"`
}

func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, in CreateInput) (*Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Specialization = strings.TrimSpace(in.Specialization)
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.Specialization == "" {
		return nil, fmt.Errorf("specialization is required")
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	slots := make([]string, 0, len(in.AvailableSlots))
	seen := make(map[string]bool, len(in.AvailableSlots))
	for _, slot := range in.AvailableSlots {
		slot = strings.TrimSpace(slot)
		if slot == "" || seen[slot] {
			continue
		}
		seen[slot] = true
		slots = append(slots, slot)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &Doctor{
		HospitalID:     hospitalID,
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Specialization: in.Specialization,
		AvailableSlots: slots,
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Doctor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	d, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.ListByHospital(ctx, hospitalID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, hospitalID, doctorID uuid.UUID) error {
	return s.doctors.Delete(ctx, hospitalID, doctorID)
}

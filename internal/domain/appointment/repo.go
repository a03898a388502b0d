package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a new appointment. A pending or approved appointment
	// already holding the same (doctor, slot) pair yields ErrSlotTaken.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// UpdateStatus moves the appointment from one status to another as a
	// single conditional write. A row whose status no longer matches from
	// (a concurrent transition won) yields ErrStatusChanged.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// ListByDoctor filters on one status; the doctor's schedule view asks
	// for approved appointments.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error)
	ListPendingByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// BookedSlots returns the slot labels currently held by a pending or
	// approved appointment with the doctor.
	BookedSlots(ctx context.Context, doctorID uuid.UUID) ([]string, error)
}

package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/carebook/carebook/internal/domain/doctor"
	"github.com/carebook/carebook/internal/domain/hospital"
)

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrSlotTaken        = errors.New("slot already booked")
	ErrSlotNotOffered   = errors.New("doctor does not offer this slot")
	ErrHospitalMismatch = errors.New("doctor does not belong to this hospital")
	ErrForeignHospital  = errors.New("appointment belongs to another hospital")
	ErrTerminalStatus   = errors.New("appointment status is final")
	ErrBadTransition    = errors.New("illegal status transition")
	ErrStatusChanged    = errors.New("appointment status changed concurrently")
)

// Service owns the booking flow. It reads doctors and hospitals through
// their repositories to validate bookings and to serve the public discovery
// endpoints.
type Service struct {
	appointments Repository
	doctors      doctor.Repository
	hospitals    hospital.Repository
}

func NewService(appointments Repository, doctors doctor.Repository, hospitals hospital.Repository) *Service {
	return &Service{appointments: appointments, doctors: doctors, hospitals: hospitals}
}

type BookInput struct {
	DoctorID   uuid.UUID `json:"doctor_id"`
	HospitalID uuid.UUID `json:"hospital_id"`
	Slot       string    `json:"slot"`
	Reason     *string   `json:"reason,omitempty"`
}

// Book validates the request against the doctor's offering and inserts a
// pending appointment. The store's uniqueness constraint is the only
// double-booking defense: under a race, exactly one insert wins and the
// rest see ErrSlotTaken.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, in BookInput) (*Appointment, error) {
	in.Slot = strings.TrimSpace(in.Slot)
	if in.Slot == "" {
		return nil, fmt.Errorf("slot is required")
	}

	d, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if d.HospitalID != in.HospitalID {
		return nil, ErrHospitalMismatch
	}
	if !d.OffersSlot(in.Slot) {
		return nil, ErrSlotNotOffered
	}

	a := &Appointment{
		PatientID:  patientID,
		DoctorID:   in.DoctorID,
		HospitalID: in.HospitalID,
		Slot:       in.Slot,
		Status:     StatusPending,
		Reason:     in.Reason,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateStatus moves an appointment owned by hospitalID to the target
// status. Transitions out of a terminal status fail, as does any move the
// state machine does not allow. The write is conditional on the status the
// service observed, so two racing transitions cannot both win: the loser's
// write matches no row and surfaces as ErrStatusChanged.
func (s *Service) UpdateStatus(ctx context.Context, hospitalID, appointmentID uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) || status == StatusPending {
		return nil, fmt.Errorf("invalid target status %q", status)
	}

	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.HospitalID != hospitalID {
		return nil, ErrForeignHospital
	}
	if Terminal(a.Status) {
		return nil, ErrTerminalStatus
	}
	if !ValidTransition(a.Status, status) {
		return nil, ErrBadTransition
	}

	if err := s.appointments.UpdateStatus(ctx, appointmentID, a.Status, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

// Timeslots returns the doctor's offered slots minus those held by a
// pending or approved appointment.
func (s *Service) Timeslots(ctx context.Context, doctorID uuid.UUID) ([]string, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	booked, err := s.appointments.BookedSlots(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}
	free := make([]string, 0, len(d.AvailableSlots))
	for _, slot := range d.AvailableSlots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	sort.Strings(free)
	return free, nil
}

// -- Discovery --

func (s *Service) Specializations(ctx context.Context) ([]string, error) {
	return s.doctors.Specializations(ctx)
}

func (s *Service) SpecializationsByHospital(ctx context.Context, hospitalID uuid.UUID) ([]string, error) {
	return s.doctors.SpecializationsByHospital(ctx, hospitalID)
}

func (s *Service) Hospitals(ctx context.Context, limit, offset int) ([]*hospital.Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

func (s *Service) HospitalsBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*hospital.Hospital, int, error) {
	return s.hospitals.ListBySpecialization(ctx, specialization, limit, offset)
}

func (s *Service) Doctors(ctx context.Context, hospitalID uuid.UUID, specialization string, limit, offset int) ([]*doctor.Doctor, int, error) {
	return s.doctors.ListByHospitalAndSpecialization(ctx, hospitalID, specialization, limit, offset)
}

// -- Listings --

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListApprovedByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, StatusApproved, limit, offset)
}

func (s *Service) ListPendingByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListPendingByHospital(ctx, hospitalID, limit, offset)
}

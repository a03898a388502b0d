package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. An appointment is born pending; the owning hospital
// moves it forward. Rejected and completed are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Appointment maps to the appointment table. Slot is an opaque label from
// the doctor's offered set; the store enforces that at most one pending or
// approved appointment holds a given (doctor, slot) pair.
type Appointment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID   uuid.UUID `db:"doctor_id" json:"doctor_id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Slot       string    `db:"slot" json:"slot"`
	Status     string    `db:"status" json:"status"`
	Reason     *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ValidStatus reports whether s names a known appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions may leave s.
func Terminal(s string) bool {
	return s == StatusRejected || s == StatusCompleted
}

// ValidTransition reports whether from may move to to. Legal moves are
// pending to approved, rejected, or completed, and approved to completed.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCompleted
	case StatusApproved:
		return to == StatusCompleted
	}
	return false
}

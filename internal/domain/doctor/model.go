package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table. AvailableSlots holds the discrete slot
// labels the doctor offers for booking, stored as a text array.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	HospitalID     uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Specialization string    `db:"specialization" json:"specialization"`
	AvailableSlots []string  `db:"available_slots" json:"available_slots"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// OffersSlot reports whether slot is one of the doctor's offered labels.
func (d *Doctor) OffersSlot(slot string) bool {
	for _, s := range d.AvailableSlots {
		if s == slot {
			return true
		}
	}
	return false
}

package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/carebook/carebook/internal/domain/doctor"
	"github.com/carebook/carebook/internal/domain/hospital"
)

// mockRepo enforces the same uniqueness the partial index does: at most one
// pending or approved appointment per (doctor, slot).
type mockRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.appointments {
		if existing.DoctorID == a.DoctorID && existing.Slot == a.Slot && !Terminal(existing.Status) {
			return ErrSlotTaken
		}
	}
	a.ID = uuid.New()
	clone := *a
	m.appointments[a.ID] = &clone
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return ErrNotFound
	}
	if a.Status != from {
		return ErrStatusChanged
	}
	a.Status = to
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			clone := *a
			items = append(items, &clone)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Status == status {
			clone := *a
			items = append(items, &clone)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListPendingByHospital(_ context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Appointment
	for _, a := range m.appointments {
		if a.HospitalID == hospitalID && a.Status == StatusPending {
			clone := *a
			items = append(items, &clone)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) BookedSlots(_ context.Context, doctorID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []string
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && !Terminal(a.Status) {
			slots = append(slots, a.Slot)
		}
	}
	return slots, nil
}

// mockDoctorRepo serves GetByID and the discovery queries from a fixed set.
type mockDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func (m *mockDoctorRepo) Create(_ context.Context, _ *doctor.Doctor) error { return nil }

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, doctor.ErrNotFound
	}
	return d, nil
}

func (m *mockDoctorRepo) GetByEmail(_ context.Context, _ string) (*doctor.Doctor, error) {
	return nil, doctor.ErrNotFound
}

func (m *mockDoctorRepo) ListByHospital(_ context.Context, _ uuid.UUID, _, _ int) ([]*doctor.Doctor, int, error) {
	return nil, 0, nil
}

func (m *mockDoctorRepo) ListByHospitalAndSpecialization(_ context.Context, hospitalID uuid.UUID, specialization string, _, _ int) ([]*doctor.Doctor, int, error) {
	var items []*doctor.Doctor
	for _, d := range m.doctors {
		if d.HospitalID == hospitalID && d.Specialization == specialization {
			items = append(items, d)
		}
	}
	return items, len(items), nil
}

func (m *mockDoctorRepo) Specializations(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var items []string
	for _, d := range m.doctors {
		if !seen[d.Specialization] {
			seen[d.Specialization] = true
			items = append(items, d.Specialization)
		}
	}
	return items, nil
}

func (m *mockDoctorRepo) SpecializationsByHospital(_ context.Context, hospitalID uuid.UUID) ([]string, error) {
	var items []string
	for _, d := range m.doctors {
		if d.HospitalID == hospitalID {
			items = append(items, d.Specialization)
		}
	}
	return items, nil
}

func (m *mockDoctorRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

type mockHospitalRepo struct {
	hospitals map[uuid.UUID]*hospital.Hospital
}

func (m *mockHospitalRepo) Create(_ context.Context, _ *hospital.Hospital) error { return nil }

func (m *mockHospitalRepo) GetByID(_ context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, hospital.ErrNotFound
	}
	return h, nil
}

func (m *mockHospitalRepo) GetByEmail(_ context.Context, _ string) (*hospital.Hospital, error) {
	return nil, hospital.ErrNotFound
}

func (m *mockHospitalRepo) List(_ context.Context, _, _ int) ([]*hospital.Hospital, int, error) {
	var items []*hospital.Hospital
	for _, h := range m.hospitals {
		items = append(items, h)
	}
	return items, len(items), nil
}

func (m *mockHospitalRepo) ListBySpecialization(_ context.Context, _ string, _, _ int) ([]*hospital.Hospital, int, error) {
	return nil, 0, nil
}

// fixture wires one hospital with one cardiologist offering two slots.
type fixture struct {
	svc        *Service
	repo       *mockRepo
	hospitalID uuid.UUID
	doctorID   uuid.UUID
}

func newFixture() *fixture {
	hospitalID := uuid.New()
	doctorID := uuid.New()

	doctors := &mockDoctorRepo{doctors: map[uuid.UUID]*doctor.Doctor{
		doctorID: {
			ID:             doctorID,
			HospitalID:     hospitalID,
			Name:           "Dr. Amara Okafor",
			Specialization: "Cardiology",
			AvailableSlots: []string{"Mon 09:00", "Tue 14:00"},
		},
	}}
	hospitals := &mockHospitalRepo{hospitals: map[uuid.UUID]*hospital.Hospital{
		hospitalID: {ID: hospitalID, Name: "City General"},
	}}
	repo := newMockRepo()
	return &fixture{
		svc:        NewService(repo, doctors, hospitals),
		repo:       repo,
		hospitalID: hospitalID,
		doctorID:   doctorID,
	}
}

func (f *fixture) book(t *testing.T, patientID uuid.UUID, slot string) *Appointment {
	t.Helper()
	a, err := f.svc.Book(context.Background(), patientID, BookInput{
		DoctorID:   f.doctorID,
		HospitalID: f.hospitalID,
		Slot:       slot,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return a
}

func TestBook(t *testing.T) {
	f := newFixture()
	a := f.book(t, uuid.New(), "Mon 09:00")
	if a.Status != StatusPending {
		t.Errorf("expected pending, got %s", a.Status)
	}
	if a.HospitalID != f.hospitalID {
		t.Error("appointment not stamped with the doctor's hospital")
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Book(context.Background(), uuid.New(), BookInput{
		DoctorID:   uuid.New(),
		HospitalID: f.hospitalID,
		Slot:       "Mon 09:00",
	})
	if err != ErrDoctorNotFound {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBook_HospitalMismatch(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Book(context.Background(), uuid.New(), BookInput{
		DoctorID:   f.doctorID,
		HospitalID: uuid.New(),
		Slot:       "Mon 09:00",
	})
	if err != ErrHospitalMismatch {
		t.Fatalf("expected ErrHospitalMismatch, got %v", err)
	}
}

func TestBook_SlotNotOffered(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Book(context.Background(), uuid.New(), BookInput{
		DoctorID:   f.doctorID,
		HospitalID: f.hospitalID,
		Slot:       "Wed 11:00",
	})
	if err != ErrSlotNotOffered {
		t.Fatalf("expected ErrSlotNotOffered, got %v", err)
	}
}

func TestBook_SlotTaken(t *testing.T) {
	f := newFixture()
	f.book(t, uuid.New(), "Mon 09:00")

	_, err := f.svc.Book(context.Background(), uuid.New(), BookInput{
		DoctorID:   f.doctorID,
		HospitalID: f.hospitalID,
		Slot:       "Mon 09:00",
	})
	if err != ErrSlotTaken {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestBook_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture()
	const contenders = 16

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(context.Background(), uuid.New(), BookInput{
				DoctorID:   f.doctorID,
				HospitalID: f.hospitalID,
				Slot:       "Tue 14:00",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrSlotTaken:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one winner, got %d", wins)
	}
	if conflicts != contenders-1 {
		t.Errorf("expected %d conflicts, got %d", contenders-1, conflicts)
	}
}

func TestBook_FreedSlotAfterRejection(t *testing.T) {
	f := newFixture()
	a := f.book(t, uuid.New(), "Mon 09:00")

	if _, err := f.svc.UpdateStatus(context.Background(), f.hospitalID, a.ID, StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	f.book(t, uuid.New(), "Mon 09:00")
}

func TestUpdateStatus_Transitions(t *testing.T) {
	cases := []struct {
		name    string
		prep    string
		target  string
		wantErr error
	}{
		{"pending to approved", StatusPending, StatusApproved, nil},
		{"pending to rejected", StatusPending, StatusRejected, nil},
		{"pending to completed", StatusPending, StatusCompleted, nil},
		{"approved to completed", StatusApproved, StatusCompleted, nil},
		{"approved to rejected", StatusApproved, StatusRejected, ErrBadTransition},
		{"rejected is terminal", StatusRejected, StatusApproved, ErrTerminalStatus},
		{"completed is terminal", StatusCompleted, StatusApproved, ErrTerminalStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			a := f.book(t, uuid.New(), "Mon 09:00")
			if tc.prep != StatusPending {
				if err := f.repo.UpdateStatus(context.Background(), a.ID, StatusPending, tc.prep); err != nil {
					t.Fatalf("prep: %v", err)
				}
			}

			_, err := f.svc.UpdateStatus(context.Background(), f.hospitalID, a.ID, tc.target)
			if err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// staleReadRepo hands every reader the pending snapshot taken at
// construction, so two transitions both pass the in-memory checks and race
// on the conditional write alone.
type staleReadRepo struct {
	*mockRepo
	snapshot *Appointment
}

func (r *staleReadRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	if id == r.snapshot.ID {
		clone := *r.snapshot
		return &clone, nil
	}
	return nil, ErrNotFound
}

func TestUpdateStatus_RacingTransitionsSingleWinner(t *testing.T) {
	f := newFixture()
	a := f.book(t, uuid.New(), "Mon 09:00")

	stale := *a
	svc := NewService(&staleReadRepo{mockRepo: f.repo, snapshot: &stale}, f.svc.doctors, f.svc.hospitals)

	if _, err := svc.UpdateStatus(context.Background(), f.hospitalID, a.ID, StatusRejected); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), f.hospitalID, a.ID, StatusApproved); err != ErrStatusChanged {
		t.Fatalf("second transition: expected ErrStatusChanged, got %v", err)
	}

	got, _ := f.repo.GetByID(context.Background(), a.ID)
	if got.Status != StatusRejected {
		t.Errorf("terminal status overwritten: got %s", got.Status)
	}
}

func TestUpdateStatus_ConditionalWrite(t *testing.T) {
	f := newFixture()
	a := f.book(t, uuid.New(), "Mon 09:00")

	if err := f.repo.UpdateStatus(context.Background(), a.ID, StatusPending, StatusRejected); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := f.repo.UpdateStatus(context.Background(), a.ID, StatusPending, StatusApproved); err != ErrStatusChanged {
		t.Fatalf("stale write: expected ErrStatusChanged, got %v", err)
	}
}

func TestUpdateStatus_ForeignHospital(t *testing.T) {
	f := newFixture()
	a := f.book(t, uuid.New(), "Mon 09:00")

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), a.ID, StatusApproved)
	if err != ErrForeignHospital {
		t.Fatalf("expected ErrForeignHospital, got %v", err)
	}

	got, _ := f.repo.GetByID(context.Background(), a.ID)
	if got.Status != StatusPending {
		t.Errorf("foreign update must leave status untouched, got %s", got.Status)
	}
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	f := newFixture()
	a := f.book(t, uuid.New(), "Mon 09:00")

	for _, target := range []string{"pending", "cancelled", ""} {
		if _, err := f.svc.UpdateStatus(context.Background(), f.hospitalID, a.ID, target); err == nil {
			t.Errorf("target %q: expected an error", target)
		}
	}
}

func TestTimeslots(t *testing.T) {
	f := newFixture()
	free, err := f.svc.Timeslots(context.Background(), f.doctorID)
	if err != nil {
		t.Fatalf("timeslots: %v", err)
	}
	if len(free) != 2 {
		t.Fatalf("expected 2 free slots, got %v", free)
	}

	f.book(t, uuid.New(), "Mon 09:00")
	free, err = f.svc.Timeslots(context.Background(), f.doctorID)
	if err != nil {
		t.Fatalf("timeslots: %v", err)
	}
	if len(free) != 1 || free[0] != "Tue 14:00" {
		t.Errorf("expected only Tue 14:00 free, got %v", free)
	}
}

func TestTimeslots_UnknownDoctor(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Timeslots(context.Background(), uuid.New()); err != ErrDoctorNotFound {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBookingFlow(t *testing.T) {
	f := newFixture()
	patientID := uuid.New()
	a := f.book(t, patientID, "Mon 09:00")

	pending, _, err := f.svc.ListPendingByHospital(context.Background(), f.hospitalID, 20, 0)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected 1 pending appointment, got %d (%v)", len(pending), err)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), f.hospitalID, a.ID, StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, _, _ = f.svc.ListPendingByHospital(context.Background(), f.hospitalID, 20, 0)
	if len(pending) != 0 {
		t.Errorf("approved appointment still listed as pending")
	}

	schedule, _, err := f.svc.ListApprovedByDoctor(context.Background(), f.doctorID, 20, 0)
	if err != nil || len(schedule) != 1 {
		t.Fatalf("expected 1 approved appointment for the doctor, got %d (%v)", len(schedule), err)
	}

	mine, _, err := f.svc.ListByPatient(context.Background(), patientID, 20, 0)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected 1 appointment for the patient, got %d (%v)", len(mine), err)
	}
	if mine[0].Status != StatusApproved {
		t.Errorf("expected approved, got %s", mine[0].Status)
	}
}

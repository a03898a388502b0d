package healthrecord

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/filestore"
)

type mockRepo struct {
	records    map[uuid.UUID]*HealthRecord
	failCreate bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*HealthRecord)}
}

func (m *mockRepo) Create(_ context.Context, r *HealthRecord) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	r.ID = uuid.New()
	r.UploadedAt = time.Now()
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*HealthRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	var items []*HealthRecord
	for _, r := range m.records {
		if r.PatientID == patientID {
			items = append(items, r)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, _ uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func newTestService() (*Service, *mockRepo, *filestore.MemStore) {
	repo := newMockRepo()
	files := filestore.NewMemStore()
	return NewService(repo, files, zerolog.Nop()), repo, files
}

func TestUpload(t *testing.T) {
	svc, repo, files := newTestService()
	patientID := uuid.New()

	rec, err := svc.Upload(context.Background(), patientID, "scan.pdf", "application/pdf",
		strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.PatientID != patientID {
		t.Error("record not owned by uploading patient")
	}
	if rec.FileName != "scan.pdf" {
		t.Errorf("unexpected file name %q", rec.FileName)
	}
	if rec.FilePath == "scan.pdf" {
		t.Error("storage name must differ from the uploaded name")
	}
	if files.Len() != 1 {
		t.Errorf("expected 1 stored file, got %d", files.Len())
	}
	if len(repo.records) != 1 {
		t.Errorf("expected 1 metadata row, got %d", len(repo.records))
	}
}

func TestUpload_DisallowedType(t *testing.T) {
	svc, repo, files := newTestService()

	_, err := svc.Upload(context.Background(), uuid.New(), "malware.exe", "application/octet-stream",
		strings.NewReader("MZ"))
	if !errors.Is(err, filestore.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
	if files.Len() != 0 {
		t.Error("rejected upload must write nothing")
	}
	if len(repo.records) != 0 {
		t.Error("rejected upload must persist nothing")
	}
}

func TestUpload_InsertFailureRemovesFile(t *testing.T) {
	svc, repo, files := newTestService()
	repo.failCreate = true

	_, err := svc.Upload(context.Background(), uuid.New(), "scan.png", "image/png",
		strings.NewReader("fake png"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if files.Len() != 0 {
		t.Error("failed insert must not leave an orphaned file")
	}
}

func TestDelete(t *testing.T) {
	svc, repo, files := newTestService()
	patientID := uuid.New()
	rec, err := svc.Upload(context.Background(), patientID, "scan.jpg", "image/jpeg",
		strings.NewReader("fake jpg"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), patientID, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.records) != 0 {
		t.Error("metadata row survived deletion")
	}
	if files.Len() != 0 {
		t.Error("stored file survived deletion")
	}
}

func TestDelete_ForeignPatient(t *testing.T) {
	svc, repo, files := newTestService()
	rec, err := svc.Upload(context.Background(), uuid.New(), "scan.jpeg", "image/jpeg",
		strings.NewReader("fake jpg"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), uuid.New(), rec.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.records) != 1 || files.Len() != 1 {
		t.Error("foreign delete must leave the record and file intact")
	}
}

func TestDelete_UnknownRecord(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

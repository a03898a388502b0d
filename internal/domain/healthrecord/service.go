package healthrecord

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/platform/filestore"
)

var (
	ErrNotFound  = errors.New("health record not found")
	ErrForbidden = errors.New("record belongs to another patient")
)

type Service struct {
	records Repository
	files   filestore.Store
	logger  zerolog.Logger
}

func NewService(records Repository, files filestore.Store, logger zerolog.Logger) *Service {
	return &Service{records: records, files: files, logger: logger}
}

// Upload validates the file, writes it to storage, and records its
// metadata. A metadata insert failure removes the stored file so no
// orphan remains on disk.
func (s *Service) Upload(ctx context.Context, patientID uuid.UUID, fileName, contentType string, content io.Reader) (*HealthRecord, error) {
	if err := filestore.Validate(fileName, contentType); err != nil {
		return nil, err
	}

	storedName, size, err := s.files.Save(ctx, fileName, contentType, content)
	if err != nil {
		return nil, err
	}

	rec := &HealthRecord{
		PatientID:   patientID,
		FilePath:    storedName,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		if rmErr := s.files.Remove(ctx, storedName); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("file", storedName).Msg("orphaned upload left in storage")
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	return s.records.ListByDoctor(ctx, doctorID, limit, offset)
}

// Delete removes the metadata row and the stored file. A record owned by
// another patient is refused before anything is touched.
func (s *Service) Delete(ctx context.Context, patientID, recordID uuid.UUID) error {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.PatientID != patientID {
		return ErrForbidden
	}

	if err := s.records.Delete(ctx, recordID); err != nil {
		return err
	}
	if err := s.files.Remove(ctx, rec.FilePath); err != nil && !errors.Is(err, filestore.ErrFileNotFound) {
		s.logger.Warn().Err(err).Str("file", rec.FilePath).Msg("stored file removal failed")
	}
	return nil
}

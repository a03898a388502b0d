package healthrecord

import (
	"time"

	"github.com/google/uuid"
)

// HealthRecord is the metadata row for one uploaded patient file. FilePath
// is the collision-resistant storage name inside the upload directory;
// FileName is the name the patient uploaded under.
type HealthRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	FilePath    string    `db:"file_path" json:"file_path"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

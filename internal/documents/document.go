// Package documents implements the project document domain for SolarDesk.
// It provides types, data access, and business logic for document upload,
// metadata management, and blob storage integration. Every document belongs
// to a project record; merging duplicate projects reassigns documents to
// the surviving record.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded project document with its metadata and
// blob storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	DocType     string    `json:"doc_type"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is optional and may be extracted
// by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	ProjectID   uuid.UUID
	DocType     string
	Filename    string
	ContentType string
	PageCount   *int
}

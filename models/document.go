package models

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentType is the kind of file the backend can analyze.
type DocumentType string

const (
	TypePDF  DocumentType = "pdf"
	TypeDOCX DocumentType = "docx"
	TypeTXT  DocumentType = "txt"
)

// ProcessingStatus is the lifecycle state of an uploaded document.
// pending -> processing -> completed, or pending|processing -> failed.
// completed and failed are terminal.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Terminal reports whether no further status transitions are expected.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document represents one uploaded file and its processing lifecycle.
type Document struct {
	// ID is the backend-assigned identifier, or a client-side token when
	// the backend omits one. Unique within the store.
	ID string `json:"document_id"`

	// Filename is the original name of the uploaded file.
	Filename string `json:"filename"`

	// Type is pdf, docx or txt, inferred from the filename extension when
	// the backend doesn't report it.
	Type DocumentType `json:"document_type"`

	// Size is the file size in bytes.
	Size int64 `json:"file_size"`

	// UploadedAt is when the backend accepted the upload.
	UploadedAt time.Time `json:"upload_timestamp"`

	// Status tracks the processing state machine above.
	Status ProcessingStatus `json:"processing_status"`

	// Fields below are filled in as processing completes.
	Summary      string    `json:"summary,omitempty"`
	RiskLevel    RiskLevel `json:"risk_level,omitempty"`
	TotalPages   int       `json:"total_pages,omitempty"`
	TotalClauses int       `json:"total_clauses,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// InferDocumentType maps a filename extension to a DocumentType.
// Unknown extensions default to txt, matching backend behavior.
func InferDocumentType(filename string) DocumentType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return TypePDF
	case ".docx", ".doc":
		return TypeDOCX
	default:
		return TypeTXT
	}
}

// Accepted upload constraints, enforced client-side before any network call.
const MaxUploadSize = 10 * 1024 * 1024 // 10 MiB

var acceptedMIMETypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
	"text/plain":         true,
}

// AcceptableUpload reports whether a file passes the local MIME-type and
// size checks. Files failing this are excluded from the upload batch.
func AcceptableUpload(mimeType string, size int64) bool {
	return acceptedMIMETypes[mimeType] && size <= MaxUploadSize && size > 0
}

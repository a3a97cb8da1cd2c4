package exports

import (
	"time"

	"github.com/fdg312/muscle-plan/internal/plan"
	"github.com/google/uuid"
)

// Export is a generated document and where its bytes live.
type Export struct {
	ID        uuid.UUID
	Kind      string // "shopping" or "week"
	Format    string // "pdf" or "csv"
	Region    plan.Region
	SessionID *uuid.UUID
	ObjectKey *string
	SizeBytes int64
	CreatedAt time.Time
	Data      []byte // Only used in local mode
}

// CreateExportRequest is the request body for POST /v1/exports.
type CreateExportRequest struct {
	Kind      string     `json:"kind"`
	Format    string     `json:"format"`
	Region    string     `json:"region"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
}

// ExportDTO is the response representation of an export.
type ExportDTO struct {
	ID          uuid.UUID   `json:"id"`
	Kind        string      `json:"kind"`
	Format      string      `json:"format"`
	Region      plan.Region `json:"region"`
	SessionID   *uuid.UUID  `json:"session_id,omitempty"`
	DownloadURL string      `json:"download_url"`
	SizeBytes   int64       `json:"size_bytes"`
	CreatedAt   time.Time   `json:"created_at"`
}

const (
	KindShopping = "shopping"
	KindWeek     = "week"

	FormatPDF = "pdf"
	FormatCSV = "csv"
)

func contentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

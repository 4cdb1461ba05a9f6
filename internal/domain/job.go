package domain

import (
	"time"

	"github.com/google/uuid"
)

// RenderJob tracks one document generation request from submission to
// artifact delivery.
type RenderJob struct {
	ID           uuid.UUID              `json:"id"`
	UserIDs      []uuid.UUID            `json:"user_ids"`
	TemplateName string                 `json:"template_name"`
	Format       string                 `json:"format"`
	ConvertToPDF bool                   `json:"convert_to_pdf"`
	Status       string                 `json:"status"`
	Metadata     map[string]interface{} `json:"metadata"`
	DocumentID   *uuid.UUID             `json:"document_id,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Job statuses.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

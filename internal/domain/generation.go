package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRecord witnesses that checklist generation ran for one
// (template, property, occurrence date) combination. The unique index
// over those three columns is what makes generation idempotent: whoever
// inserts the record first creates the checklist, everyone else skips.
type GenerationRecord struct {
	ID             uuid.UUID
	TemplateID     uuid.UUID
	PropertyID     uuid.UUID
	OccurrenceDate time.Time
	TriggeredBy    TriggerSource
	GeneratedAt    time.Time
}

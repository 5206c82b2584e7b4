package generation

import (
	"time"

	"github.com/google/uuid"
)

// Summary describes what one template contributed to a generation run.
type Summary struct {
	TemplateID   uuid.UUID
	TemplateName string
	Created      int
	Skipped      int
	Warnings     []string
}

// TemplateFailure describes a template whose generation failed. Other
// templates in the same run are unaffected.
type TemplateFailure struct {
	TemplateID   uuid.UUID
	TemplateName string
	Reason       string
}

// Report aggregates a full generation run.
type Report struct {
	AsOf        time.Time
	TriggeredBy string
	Created     int
	Skipped     int
	PerTemplate []Summary
	Failures    []TemplateFailure
}

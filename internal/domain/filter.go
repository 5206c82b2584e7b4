package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistFilter contains filtering/pagination parameters for checklist
// listings.
type ChecklistFilter struct {
	PropertyID *uuid.UUID
	TemplateID *uuid.UUID
	Status     *ChecklistStatus
	AssignedTo *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
	Offset     int
}

// TemplateFilter contains filtering/pagination parameters for template
// listings. Retired templates are hidden unless IncludeRetired is set.
type TemplateFilter struct {
	Active         *bool
	IncludeRetired bool
	Limit          int
	Offset         int
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistTemplate is the master definition of a recurring checklist:
// what work has to be done, on which properties, and on what rhythm.
// Generated checklists copy from it but never point back for live state.
type ChecklistTemplate struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Schedule    Schedule
	Active      bool
	RetiredAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []TemplateItem
}

// IsGenerable reports whether the template may produce new checklists.
func (t ChecklistTemplate) IsGenerable() bool {
	return t.Active && t.RetiredAt == nil
}

// TemplateItem is a single line of work on a template.
type TemplateItem struct {
	ID               uuid.UUID
	TemplateID       uuid.UUID
	Position         int
	Title            string
	Description      *string
	DataType         ItemDataType
	Required         bool
	RequiresApproval bool
	CreatedAt        time.Time
}

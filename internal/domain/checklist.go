package domain

import (
	"time"

	"github.com/google/uuid"
)

// Checklist is one generated instance of a template for a property on a
// given occurrence date. It owns its lifecycle independently of the
// template it was stamped from.
type Checklist struct {
	ID             uuid.UUID
	TemplateID     uuid.UUID
	PropertyID     uuid.UUID
	OccurrenceDate time.Time
	DueAt          time.Time
	Status         ChecklistStatus
	AssignedTo     *uuid.UUID
	ReviewNotes    *string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ItemResponse records that somebody completed one checklist item.
// There is at most one response per (checklist, item); re-completing
// overwrites value, notes and author.
type ItemResponse struct {
	ID          uuid.UUID
	ChecklistID uuid.UUID
	ItemID      uuid.UUID
	Value       string
	Notes       *string
	CompletedBy uuid.UUID
	CompletedAt time.Time
	UpdatedAt   time.Time
}

// ItemApproval is a reviewer's verdict on a single item response.
// At most one approval exists per response; re-deciding overwrites it.
type ItemApproval struct {
	ID         uuid.UUID
	ResponseID uuid.UUID
	Decision   ApprovalDecision
	Notes      *string
	ReviewedBy uuid.UUID
	DecidedAt  time.Time
}

// ChecklistItem pairs a template item with its current response and
// approval state on one checklist.
type ChecklistItem struct {
	Item     TemplateItem
	Response *ItemResponse
	Approval *ItemApproval
}

// ChecklistDetail is a checklist with its full item breakdown.
type ChecklistDetail struct {
	Checklist    Checklist
	TemplateName string
	Items        []ChecklistItem
}

package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	maxValueLen = 10_000
	maxNotesLen = 2_000
)

// CompleteItemInput holds the parameters for completing a checklist item.
type CompleteItemInput struct {
	ChecklistID uuid.UUID
	ItemID      uuid.UUID
	Value       string
	Notes       *string
}

// Validate checks all fields and collects all errors.
func (i *CompleteItemInput) Validate() error {
	var errs []domain.FieldError

	if i.ChecklistID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "checklist_id", Message: "required"})
	}
	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if strings.TrimSpace(i.Value) == "" {
		errs = append(errs, domain.FieldError{Field: "value", Message: "required"})
	} else if len(i.Value) > maxValueLen {
		errs = append(errs, domain.FieldError{Field: "value", Message: fmt.Sprintf("too long (max %d characters)", maxValueLen)})
	}
	if i.Notes != nil && len(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: fmt.Sprintf("too long (max %d characters)", maxNotesLen)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UncompleteItemInput holds the parameters for removing an item response.
type UncompleteItemInput struct {
	ChecklistID uuid.UUID
	ItemID      uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *UncompleteItemInput) Validate() error {
	var errs []domain.FieldError

	if i.ChecklistID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "checklist_id", Message: "required"})
	}
	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewItemInput holds the parameters for approving or rejecting an
// item response. Notes are optional on approval and mandatory on
// rejection; the rejection check lives in the operation because it
// depends on the decision.
type ReviewItemInput struct {
	ChecklistID uuid.UUID
	ItemID      uuid.UUID
	Notes       *string
}

// Validate checks all fields and collects all errors.
func (i *ReviewItemInput) Validate() error {
	var errs []domain.FieldError

	if i.ChecklistID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "checklist_id", Message: "required"})
	}
	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if i.Notes != nil && len(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: fmt.Sprintf("too long (max %d characters)", maxNotesLen)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SetStatusInput holds the parameters for an explicit status change.
type SetStatusInput struct {
	ChecklistID uuid.UUID
	Status      domain.ChecklistStatus
	Notes       *string
}

// Validate checks all fields and collects all errors.
func (i *SetStatusInput) Validate() error {
	var errs []domain.FieldError

	if i.ChecklistID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "checklist_id", Message: "required"})
	}
	if !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be PENDING, IN_PROGRESS, COMPLETED, APPROVED, or REJECTED"})
	}
	if i.Notes != nil && len(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: fmt.Sprintf("too long (max %d characters)", maxNotesLen)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AssignInput holds the parameters for (re)assigning a checklist.
// A nil AssigneeID clears the assignment.
type AssignInput struct {
	ChecklistID uuid.UUID
	AssigneeID  *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *AssignInput) Validate() error {
	var errs []domain.FieldError

	if i.ChecklistID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "checklist_id", Message: "required"})
	}
	if i.AssigneeID != nil && *i.AssigneeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "assignee_id", Message: "must be a valid user id or omitted"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListInput holds filtering and pagination parameters for the checklist
// listing.
type ListInput struct {
	PropertyID *uuid.UUID
	TemplateID *uuid.UUID
	Status     *domain.ChecklistStatus
	AssignedTo *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i *ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be PENDING, IN_PROGRESS, COMPLETED, APPROVED, or REJECTED"})
	}
	if i.Limit < 0 || i.Limit > maxPageSize {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d", maxPageSize)})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if i.DueFrom != nil && i.DueTo != nil && i.DueTo.Before(*i.DueFrom) {
		errs = append(errs, domain.FieldError{Field: "due_to", Message: "must not be before due_from"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// filter converts the input into a repository filter, applying the
// default page size.
func (i *ListInput) filter() domain.ChecklistFilter {
	limit := i.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	return domain.ChecklistFilter{
		PropertyID: i.PropertyID,
		TemplateID: i.TemplateID,
		Status:     i.Status,
		AssignedTo: i.AssignedTo,
		DueFrom:    i.DueFrom,
		DueTo:      i.DueTo,
		Limit:      limit,
		Offset:     i.Offset,
	}
}

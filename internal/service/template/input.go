package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 2_000
	maxItems          = 100
)

// ItemInput defines one line of work on a template. Position comes from
// slice order; ids are assigned on save.
type ItemInput struct {
	Title            string
	Description      *string
	DataType         domain.ItemDataType
	Required         bool
	RequiresApproval bool
}

func validateItems(items []ItemInput) []domain.FieldError {
	var errs []domain.FieldError

	if len(items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "at least one item is required"})
	} else if len(items) > maxItems {
		errs = append(errs, domain.FieldError{Field: "items", Message: fmt.Sprintf("too many (max %d)", maxItems)})
	}
	for idx, item := range items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", idx, name) }
		if strings.TrimSpace(item.Title) == "" {
			errs = append(errs, domain.FieldError{Field: field("title"), Message: "required"})
		} else if len(item.Title) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: field("title"), Message: fmt.Sprintf("too long (max %d characters)", maxNameLen)})
		}
		if item.Description != nil && len(*item.Description) > maxDescriptionLen {
			errs = append(errs, domain.FieldError{Field: field("description"), Message: fmt.Sprintf("too long (max %d characters)", maxDescriptionLen)})
		}
		if !item.DataType.IsValid() {
			errs = append(errs, domain.FieldError{Field: field("data_type"), Message: "must be TEXT, NUMBER, BOOLEAN, or PHOTO"})
		}
	}

	return errs
}

func validateSchedule(s domain.Schedule) []domain.FieldError {
	err := s.Validate()
	if err == nil {
		return nil
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Errors
	}
	return []domain.FieldError{{Field: "schedule", Message: err.Error()}}
}

// CreateTemplateInput holds the parameters for creating a template.
type CreateTemplateInput struct {
	Name        string
	Description *string
	Schedule    domain.Schedule
	Items       []ItemInput
}

// Validate checks all fields and collects all errors.
func (i *CreateTemplateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: fmt.Sprintf("too long (max %d characters)", maxNameLen)})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: fmt.Sprintf("too long (max %d characters)", maxDescriptionLen)})
	}
	errs = append(errs, validateSchedule(i.Schedule)...)
	errs = append(errs, validateItems(i.Items)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateTemplateInput replaces a template's definition wholesale.
type UpdateTemplateInput struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Schedule    domain.Schedule
	Active      bool
	Items       []ItemInput
}

// Validate checks all fields and collects all errors.
func (i *UpdateTemplateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "required"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: fmt.Sprintf("too long (max %d characters)", maxNameLen)})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: fmt.Sprintf("too long (max %d characters)", maxDescriptionLen)})
	}
	errs = append(errs, validateSchedule(i.Schedule)...)
	errs = append(errs, validateItems(i.Items)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListTemplatesInput holds filtering and pagination parameters for the
// template listing.
type ListTemplatesInput struct {
	Active         *bool
	IncludeRetired bool
	Limit          int
	Offset         int
}

// Validate checks all fields and collects all errors.
func (i *ListTemplatesInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > maxPageSize {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d", maxPageSize)})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// filter converts the input into a repository filter, applying the
// default page size.
func (i *ListTemplatesInput) filter() domain.TemplateFilter {
	limit := i.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	return domain.TemplateFilter{
		Active:         i.Active,
		IncludeRetired: i.IncludeRetired,
		Limit:          limit,
		Offset:         i.Offset,
	}
}

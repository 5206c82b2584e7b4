package property

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	maxNameLen    = 200
	maxAddressLen = 500
)

// CreatePropertyInput holds the parameters for registering a property.
type CreatePropertyInput struct {
	Name      string
	Address   *string
	ManagerID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *CreatePropertyInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: fmt.Sprintf("too long (max %d characters)", maxNameLen)})
	}
	if i.Address != nil && len(*i.Address) > maxAddressLen {
		errs = append(errs, domain.FieldError{Field: "address", Message: fmt.Sprintf("too long (max %d characters)", maxAddressLen)})
	}
	if i.ManagerID != nil && *i.ManagerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "manager_id", Message: "must be a valid user id or omitted"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdatePropertyInput replaces a property's fields wholesale.
type UpdatePropertyInput struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	ManagerID *uuid.UUID
	Active    bool
}

// Validate checks all fields and collects all errors.
func (i *UpdatePropertyInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "property_id", Message: "required"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: fmt.Sprintf("too long (max %d characters)", maxNameLen)})
	}
	if i.Address != nil && len(*i.Address) > maxAddressLen {
		errs = append(errs, domain.FieldError{Field: "address", Message: fmt.Sprintf("too long (max %d characters)", maxAddressLen)})
	}
	if i.ManagerID != nil && *i.ManagerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "manager_id", Message: "must be a valid user id or omitted"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListPropertiesInput holds filtering and pagination parameters for the
// property listing.
type ListPropertiesInput struct {
	OnlyActive bool
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i *ListPropertiesInput) Validate() error {
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

// AssignTemplateInput identifies one template/property pairing.
type AssignTemplateInput struct {
	TemplateID uuid.UUID
	PropertyID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *AssignTemplateInput) Validate() error {
	var errs []domain.FieldError

	if i.TemplateID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "required"})
	}
	if i.PropertyID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "property_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

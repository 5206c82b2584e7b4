package property

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// GetProperty returns one property by id.
func (s *Service) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("property_id", "required")
	}

	prop, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	return prop, nil
}

// ListProperties returns properties ordered by name plus the total
// match count.
func (s *Service) ListProperties(ctx context.Context, input ListPropertiesInput) ([]domain.Property, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultPageSize
	}

	properties, total, err := s.properties.List(ctx, input.OnlyActive, limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}

	return properties, total, nil
}

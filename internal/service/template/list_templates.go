package template

import (
	"context"
	"fmt"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListTemplates returns templates (without items) matching the filter,
// ordered by name, plus the total match count.
func (s *Service) ListTemplates(ctx context.Context, input ListTemplatesInput) ([]domain.ChecklistTemplate, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	templates, total, err := s.templates.List(ctx, input.filter())
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}

	return templates, total, nil
}

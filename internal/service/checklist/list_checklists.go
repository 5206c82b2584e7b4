package checklist

import (
	"context"
	"fmt"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// List returns checklists matching the filter, ordered by due date,
// plus the total match count for pagination.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Checklist, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	checklists, total, err := s.checklists.List(ctx, input.filter())
	if err != nil {
		return nil, 0, fmt.Errorf("list checklists: %w", err)
	}

	return checklists, total, nil
}

package generation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// History returns a template's generation records, newest first.
// Returns domain.ErrNotFound for an unknown template.
func (s *Service) History(ctx context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	records, err := s.records.ListByTemplate(ctx, templateID, limit)
	if err != nil {
		return nil, fmt.Errorf("list generation records: %w", err)
	}
	return records, nil
}

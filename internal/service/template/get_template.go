package template

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation/recur"
)

// GetTemplate returns a template with its items and, for generable
// templates, the first occurrence after today.
func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (*TemplateDetail, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("template_id", "required")
	}

	tpl, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	detail := &TemplateDetail{Template: *tpl}
	if tpl.IsGenerable() {
		if next, ok := recur.Next(tpl.Schedule, time.Now().UTC()); ok {
			detail.NextOccurrence = &next
		}
	}

	return detail, nil
}

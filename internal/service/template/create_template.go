package template

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// CreateTemplate registers a new recurring template together with its
// item definitions. New templates start active.
func (s *Service) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*domain.ChecklistTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	schedule := input.Schedule
	schedule.Normalize()

	tpl := &domain.ChecklistTemplate{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Schedule:    schedule,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       buildItems(input.Items, now),
	}

	// Transaction: insert template with items + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.templates.Create(txCtx, tpl); err != nil {
			return fmt.Errorf("create template: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeTemplate,
			EntityID:   tpl.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"name":      tpl.Name,
				"frequency": string(tpl.Schedule.Frequency),
				"items":     len(tpl.Items),
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "template created",
		slog.String("template_id", tpl.ID.String()),
		slog.String("name", tpl.Name),
		slog.String("frequency", tpl.Schedule.Frequency.String()),
		slog.Int("items", len(tpl.Items)),
	)

	return tpl, nil
}

// buildItems converts item inputs into domain items, resequencing
// positions from slice order.
func buildItems(inputs []ItemInput, now time.Time) []domain.TemplateItem {
	items := make([]domain.TemplateItem, 0, len(inputs))
	for idx, in := range inputs {
		items = append(items, domain.TemplateItem{
			ID:               uuid.New(),
			Position:         idx + 1,
			Title:            strings.TrimSpace(in.Title),
			Description:      in.Description,
			DataType:         in.DataType,
			Required:         in.Required,
			RequiresApproval: in.RequiresApproval,
			CreatedAt:        now,
		})
	}
	return items
}

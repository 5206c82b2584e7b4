package template

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// UpdateTemplate replaces a template's definition wholesale: fields,
// schedule, and item set. The item set is only touched when it actually
// changed, and a change is refused once recorded responses reference
// the current items, so completed work keeps its meaning. Already
// generated checklists are never modified.
func (s *Service) UpdateTemplate(ctx context.Context, input UpdateTemplateInput) (*domain.ChecklistTemplate, error) {
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

	var updated *domain.ChecklistTemplate

	// Transaction: load + update template + replace items if changed + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.templates.GetByID(txCtx, input.ID)
		if err != nil {
			return fmt.Errorf("get template: %w", err)
		}
		if existing.RetiredAt != nil {
			return fmt.Errorf("template %s is retired: %w", input.ID, domain.ErrConflict)
		}

		tpl := &domain.ChecklistTemplate{
			ID:          existing.ID,
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Schedule:    schedule,
			Active:      input.Active,
			CreatedAt:   existing.CreatedAt,
			UpdatedAt:   now,
		}
		if err := s.templates.Update(txCtx, tpl); err != nil {
			return fmt.Errorf("update template: %w", err)
		}

		proposed := buildItems(input.Items, now)
		itemsReplaced := false
		if itemsEqual(existing.Items, proposed) {
			tpl.Items = existing.Items
		} else {
			count, err := s.responses.CountForTemplate(txCtx, existing.ID)
			if err != nil {
				return fmt.Errorf("count responses: %w", err)
			}
			if count > 0 {
				return fmt.Errorf("template %s: %d recorded response(s) reference the current items: %w",
					existing.ID, count, domain.ErrConflict)
			}
			if err := s.templates.ReplaceItems(txCtx, existing.ID, proposed); err != nil {
				return fmt.Errorf("replace items: %w", err)
			}
			tpl.Items = proposed
			itemsReplaced = true
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeTemplate,
			EntityID:   tpl.ID,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"name":           map[string]any{"old": existing.Name, "new": tpl.Name},
				"active":         map[string]any{"old": existing.Active, "new": tpl.Active},
				"items_replaced": itemsReplaced,
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		updated = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "template updated",
		slog.String("template_id", updated.ID.String()),
		slog.String("name", updated.Name),
		slog.Bool("active", updated.Active),
	)

	return updated, nil
}

// itemsEqual reports whether the defined item set is unchanged,
// ignoring ids and timestamps. Both slices are in position order.
func itemsEqual(existing, proposed []domain.TemplateItem) bool {
	if len(existing) != len(proposed) {
		return false
	}
	for i := range existing {
		a, b := existing[i], proposed[i]
		if a.Title != b.Title || a.DataType != b.DataType ||
			a.Required != b.Required || a.RequiresApproval != b.RequiresApproval {
			return false
		}
		if (a.Description == nil) != (b.Description == nil) {
			return false
		}
		if a.Description != nil && *a.Description != *b.Description {
			return false
		}
	}
	return true
}

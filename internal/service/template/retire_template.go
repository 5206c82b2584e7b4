package template

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// RetireTemplate permanently stops a template from generating new
// checklists. The definition and all generated history stay readable.
// Retiring twice is a no-op that keeps the first retirement time.
func (s *Service) RetireTemplate(ctx context.Context, id uuid.UUID) (*domain.ChecklistTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("template_id", "required")
	}

	now := time.Now().UTC()

	var retired *domain.ChecklistTemplate

	// Transaction: load + retire + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		tpl, err := s.templates.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get template: %w", err)
		}
		if tpl.RetiredAt != nil {
			retired = tpl
			return nil
		}

		if err := s.templates.Retire(txCtx, id, now); err != nil {
			return fmt.Errorf("retire template: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeTemplate,
			EntityID:   id,
			Action:     domain.AuditActionRetire,
			Changes: map[string]any{
				"retired_at": now.Format(time.RFC3339),
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		out := *tpl
		out.RetiredAt = &now
		out.Active = false
		out.UpdatedAt = now
		retired = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "template retired",
		slog.String("template_id", retired.ID.String()),
		slog.String("name", retired.Name),
	)

	return retired, nil
}

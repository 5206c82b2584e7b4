package property

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// AssignTemplate links a template to a property so future generation
// runs cover it. Assigning the same pair twice is a no-op. Retired
// templates cannot gain new assignments.
func (s *Service) AssignTemplate(ctx context.Context, input AssignTemplateInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	// Transaction: verify both sides + link + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		tpl, err := s.templates.GetByID(txCtx, input.TemplateID)
		if err != nil {
			return fmt.Errorf("get template: %w", err)
		}
		if tpl.RetiredAt != nil {
			return fmt.Errorf("template %s is retired: %w", tpl.ID, domain.ErrConflict)
		}
		if _, err := s.properties.GetByID(txCtx, input.PropertyID); err != nil {
			return fmt.Errorf("get property: %w", err)
		}

		if err := s.properties.AssignTemplate(txCtx, input.TemplateID, input.PropertyID); err != nil {
			return fmt.Errorf("assign template: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeProperty,
			EntityID:   input.PropertyID,
			Action:     domain.AuditActionAssign,
			Changes: map[string]any{
				"template_id": input.TemplateID.String(),
				"linked":      true,
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "template assigned to property",
		slog.String("template_id", input.TemplateID.String()),
		slog.String("property_id", input.PropertyID.String()),
	)

	return nil
}

// UnassignTemplate removes a template/property link. Checklists already
// generated from the pair stay untouched.
func (s *Service) UnassignTemplate(ctx context.Context, input AssignTemplateInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	// Transaction: unlink + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.properties.UnassignTemplate(txCtx, input.TemplateID, input.PropertyID); err != nil {
			return fmt.Errorf("unassign template: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeProperty,
			EntityID:   input.PropertyID,
			Action:     domain.AuditActionAssign,
			Changes: map[string]any{
				"template_id": input.TemplateID.String(),
				"linked":      false,
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "template unassigned from property",
		slog.String("template_id", input.TemplateID.String()),
		slog.String("property_id", input.PropertyID.String()),
	)

	return nil
}

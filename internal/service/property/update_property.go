package property

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

// UpdateProperty replaces a property's fields wholesale, including the
// active flag and manager used for auto-assignment.
func (s *Service) UpdateProperty(ctx context.Context, input UpdatePropertyInput) (*domain.Property, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var updated *domain.Property

	// Transaction: load + update + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.properties.GetByID(txCtx, input.ID)
		if err != nil {
			return fmt.Errorf("get property: %w", err)
		}

		prop := &domain.Property{
			ID:        existing.ID,
			Name:      strings.TrimSpace(input.Name),
			Address:   input.Address,
			ManagerID: input.ManagerID,
			Active:    input.Active,
			CreatedAt: existing.CreatedAt,
			UpdatedAt: now,
		}
		if err := s.properties.Update(txCtx, prop); err != nil {
			return fmt.Errorf("update property: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeProperty,
			EntityID:   prop.ID,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"name":   map[string]any{"old": existing.Name, "new": prop.Name},
				"active": map[string]any{"old": existing.Active, "new": prop.Active},
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		updated = prop
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "property updated",
		slog.String("property_id", updated.ID.String()),
		slog.String("name", updated.Name),
		slog.Bool("active", updated.Active),
	)

	return updated, nil
}

// DeactivateProperty takes a property out of generation without
// touching its history or assignments. Deactivating twice is a no-op.
func (s *Service) DeactivateProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("property_id", "required")
	}

	now := time.Now().UTC()

	var deactivated *domain.Property

	// Transaction: load + flip active + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.properties.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get property: %w", err)
		}
		if !existing.Active {
			deactivated = existing
			return nil
		}

		prop := *existing
		prop.Active = false
		prop.UpdatedAt = now
		if err := s.properties.Update(txCtx, &prop); err != nil {
			return fmt.Errorf("update property: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeProperty,
			EntityID:   id,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"active": map[string]any{"old": true, "new": false},
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		deactivated = &prop
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "property deactivated",
		slog.String("property_id", deactivated.ID.String()),
		slog.String("name", deactivated.Name),
	)

	return deactivated, nil
}

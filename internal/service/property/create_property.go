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

// CreateProperty registers a new site. New properties start active.
func (s *Service) CreateProperty(ctx context.Context, input CreatePropertyInput) (*domain.Property, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	prop := &domain.Property{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Address:   input.Address,
		ManagerID: input.ManagerID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Transaction: insert + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.properties.Create(txCtx, prop); err != nil {
			return fmt.Errorf("create property: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeProperty,
			EntityID:   prop.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"name": prop.Name,
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "property created",
		slog.String("property_id", prop.ID.String()),
		slog.String("name", prop.Name),
	)

	return prop, nil
}

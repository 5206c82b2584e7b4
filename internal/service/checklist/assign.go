package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// Assign sets or clears the person responsible for a checklist.
// Approved checklists are closed and keep their final assignee.
func (s *Service) Assign(ctx context.Context, input AssignInput) (*domain.Checklist, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var updated *domain.Checklist

	// Transaction: lock checklist + update assignee + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cl, err := s.checklists.GetByIDForUpdate(txCtx, input.ChecklistID)
		if err != nil {
			return fmt.Errorf("get checklist: %w", err)
		}
		if domain.IsTerminalStatus(cl.Status) {
			return fmt.Errorf("checklist is %s: %w", cl.Status, domain.ErrConflict)
		}

		if err := s.checklists.UpdateAssignee(txCtx, cl.ID, input.AssigneeID, now); err != nil {
			return fmt.Errorf("update assignee: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeChecklist,
			EntityID:   cl.ID,
			Action:     domain.AuditActionAssign,
			Changes: map[string]any{
				"assigned_to": map[string]any{
					"old": uuidOrNil(cl.AssignedTo),
					"new": uuidOrNil(input.AssigneeID),
				},
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		out := *cl
		out.AssignedTo = input.AssigneeID
		out.UpdatedAt = now
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checklist assigned",
		slog.String("checklist_id", updated.ID.String()),
		slog.Any("assigned_to", uuidOrNil(updated.AssignedTo)),
	)

	return updated, nil
}

// uuidOrNil renders an optional id for audit payloads and logs.
func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

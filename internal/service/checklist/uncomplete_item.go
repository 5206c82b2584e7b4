package checklist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// UncompleteItem removes the response for one checklist item, together
// with any approval hanging off it. Only an in_progress checklist can
// shed responses; completed work is corrected through the rejection
// path instead.
func (s *Service) UncompleteItem(ctx context.Context, input UncompleteItemInput) (*domain.Checklist, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Checklist

	// Transaction: lock checklist + delete response + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cl, err := s.checklists.GetByIDForUpdate(txCtx, input.ChecklistID)
		if err != nil {
			return fmt.Errorf("get checklist: %w", err)
		}
		if cl.Status != domain.ChecklistStatusInProgress {
			return fmt.Errorf("checklist is %s, responses can only be removed while in progress: %w",
				cl.Status, domain.ErrConflict)
		}

		if err := s.responses.Delete(txCtx, cl.ID, input.ItemID); err != nil {
			return fmt.Errorf("delete response: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeChecklist,
			EntityID:   cl.ID,
			Action:     domain.AuditActionUpdate,
			Changes: map[string]any{
				"item_id":  input.ItemID.String(),
				"response": "removed",
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		out := *cl
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item response removed",
		slog.String("checklist_id", updated.ID.String()),
		slog.String("item_id", input.ItemID.String()),
	)

	return updated, nil
}

package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// SetStatus moves a checklist to an explicitly requested status. The
// transition table decides which moves exist; on top of it, completing
// requires every required item to hold a response, and approving
// requires every approval-gated item to hold an approved verdict.
func (s *Service) SetStatus(ctx context.Context, input SetStatusInput) (*domain.Checklist, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var (
		updated    *domain.Checklist
		fromStatus domain.ChecklistStatus
	)

	// Transaction: lock checklist + validate transition + gates + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cl, err := s.checklists.GetByIDForUpdate(txCtx, input.ChecklistID)
		if err != nil {
			return fmt.Errorf("get checklist: %w", err)
		}
		fromStatus = cl.Status

		if err := domain.ValidateChecklistTransition(cl.Status, input.Status); err != nil {
			return err
		}

		completedAt := cl.CompletedAt
		reviewNotes := cl.ReviewNotes

		switch input.Status {
		case domain.ChecklistStatusCompleted:
			missing, err := s.responses.ListMissingRequired(txCtx, cl.ID)
			if err != nil {
				return fmt.Errorf("list missing required: %w", err)
			}
			if len(missing) > 0 {
				return domain.NewValidationError("items",
					fmt.Sprintf("%d required item(s) have no response", len(missing)))
			}
			completedAt = &now
		case domain.ChecklistStatusApproved:
			unapproved, err := s.approvals.ListUnapproved(txCtx, cl.ID)
			if err != nil {
				return fmt.Errorf("list unapproved: %w", err)
			}
			if len(unapproved) > 0 {
				return &domain.ApprovalGateError{
					Reason:  "items awaiting approval",
					ItemIDs: unapproved,
				}
			}
		case domain.ChecklistStatusRejected:
			if input.Notes == nil || strings.TrimSpace(*input.Notes) == "" {
				return domain.NewValidationError("notes", "required when rejecting")
			}
			reviewNotes = input.Notes
		case domain.ChecklistStatusInProgress:
			// Starting work or reopening after rejection. In progress
			// holds no completion timestamp; recorded responses stay.
			completedAt = nil
		}

		if err := s.checklists.UpdateState(txCtx, cl.ID, input.Status, completedAt, reviewNotes, now); err != nil {
			return fmt.Errorf("update checklist state: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeChecklist,
			EntityID:   cl.ID,
			Action:     domain.AuditActionStatusChange,
			Changes: map[string]any{
				"status": map[string]any{"old": cl.Status, "new": input.Status},
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		out := *cl
		out.Status = input.Status
		out.CompletedAt = completedAt
		out.ReviewNotes = reviewNotes
		out.UpdatedAt = now
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checklist status changed",
		slog.String("checklist_id", updated.ID.String()),
		slog.String("old_status", fromStatus.String()),
		slog.String("new_status", updated.Status.String()),
	)

	return updated, nil
}

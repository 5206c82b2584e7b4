package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// ApproveItem records an approved verdict on one item's response.
// Reviews only apply while the checklist is completed.
func (s *Service) ApproveItem(ctx context.Context, input ReviewItemInput) (*domain.Checklist, error) {
	return s.reviewItem(ctx, input, domain.ApprovalDecisionApproved)
}

// RejectItem records a rejected verdict on one item's response and
// sends the whole checklist back for rework in the same transaction.
// Rejection requires notes explaining what to fix.
func (s *Service) RejectItem(ctx context.Context, input ReviewItemInput) (*domain.Checklist, error) {
	return s.reviewItem(ctx, input, domain.ApprovalDecisionRejected)
}

func (s *Service) reviewItem(ctx context.Context, input ReviewItemInput, decision domain.ApprovalDecision) (*domain.Checklist, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if decision == domain.ApprovalDecisionRejected && (input.Notes == nil || strings.TrimSpace(*input.Notes) == "") {
		return nil, domain.NewValidationError("notes", "required when rejecting")
	}

	now := time.Now().UTC()

	var updated *domain.Checklist

	// Transaction: lock checklist + upsert approval + (on reject) flip status + audit
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cl, err := s.checklists.GetByIDForUpdate(txCtx, input.ChecklistID)
		if err != nil {
			return fmt.Errorf("get checklist: %w", err)
		}
		if cl.Status != domain.ChecklistStatusCompleted {
			return fmt.Errorf("checklist is %s, reviews apply to completed checklists: %w",
				cl.Status, domain.ErrConflict)
		}

		item, err := s.findItem(txCtx, cl.TemplateID, input.ItemID)
		if err != nil {
			return err
		}
		if !item.RequiresApproval {
			return domain.NewValidationError("item_id", "item does not require approval")
		}

		resp, err := s.responses.Get(txCtx, cl.ID, input.ItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ApprovalGateError{
					Reason:  "item has no recorded response",
					ItemIDs: []uuid.UUID{input.ItemID},
				}
			}
			return fmt.Errorf("get response: %w", err)
		}

		if _, err := s.approvals.Upsert(txCtx, &domain.ItemApproval{
			ID:         uuid.New(),
			ResponseID: resp.ID,
			Decision:   decision,
			Notes:      input.Notes,
			ReviewedBy: userID,
			DecidedAt:  now,
		}); err != nil {
			return fmt.Errorf("upsert approval: %w", err)
		}

		newStatus := cl.Status
		reviewNotes := cl.ReviewNotes
		if decision == domain.ApprovalDecisionRejected {
			newStatus = domain.ChecklistStatusRejected
			reviewNotes = input.Notes
			if err := s.checklists.UpdateState(txCtx, cl.ID, newStatus, cl.CompletedAt, reviewNotes, now); err != nil {
				return fmt.Errorf("update checklist state: %w", err)
			}
		}

		action := domain.AuditActionUpdate
		changes := map[string]any{
			"item_id":  item.ID.String(),
			"decision": string(decision),
		}
		if newStatus != cl.Status {
			action = domain.AuditActionStatusChange
			changes["status"] = map[string]any{"old": cl.Status, "new": newStatus}
		}
		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    &userID,
			EntityType: domain.EntityTypeChecklist,
			EntityID:   cl.ID,
			Action:     action,
			Changes:    changes,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		out := *cl
		out.Status = newStatus
		out.ReviewNotes = reviewNotes
		if newStatus != cl.Status {
			out.UpdatedAt = now
		}
		updated = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item reviewed",
		slog.String("checklist_id", updated.ID.String()),
		slog.String("item_id", input.ItemID.String()),
		slog.String("decision", string(decision)),
		slog.String("status", updated.Status.String()),
	)

	return updated, nil
}

package checklist

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

func TestService_SetStatus_StartsWork(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusPending)

	var changes []stateChange

	svc := &Service{
		checklists: lockedChecklistMock(cl, &changes),
		audit:      defaultAuditMock(),
		tx:         defaultTxMock(),
		log:        slog.Default(),
	}

	got, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusInProgress,
	})
	if err != nil {
		t.Fatalf("SetStatus: unexpected error: %v", err)
	}
	if got.Status != domain.ChecklistStatusInProgress {
		t.Errorf("status: got %s, want %s", got.Status, domain.ChecklistStatusInProgress)
	}
	if len(changes) != 1 || changes[0].status != domain.ChecklistStatusInProgress {
		t.Fatalf("expected one state change, got %+v", changes)
	}
}

func TestService_SetStatus_ManualCompleteRequiresAllRequired(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusInProgress)

	var changes []stateChange

	svc := &Service{
		checklists: lockedChecklistMock(cl, &changes),
		responses: &responseRepoMock{
			ListMissingRequiredFunc: func(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
				return []uuid.UUID{tpl.Items[0].ID, tpl.Items[1].ID}, nil
			},
		},
		tx:  defaultTxMock(),
		log: slog.Default(),
	}

	_, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusCompleted,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation with open required items, got %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("expected no state change, got %+v", changes)
	}
}

func TestService_SetStatus_ManualCompleteSetsTimestamp(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusInProgress)

	var changes []stateChange

	svc := &Service{
		checklists: lockedChecklistMock(cl, &changes),
		responses: &responseRepoMock{
			ListMissingRequiredFunc: func(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
				return nil, nil
			},
		},
		audit: defaultAuditMock(),
		tx:    defaultTxMock(),
		log:   slog.Default(),
	}

	got, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusCompleted,
	})
	if err != nil {
		t.Fatalf("SetStatus: unexpected error: %v", err)
	}
	if got.CompletedAt == nil {
		t.Error("expected a completion timestamp")
	}
	if len(changes) != 1 || changes[0].completedAt == nil {
		t.Fatalf("expected UpdateState to carry the completion timestamp, got %+v", changes)
	}
}

func TestService_SetStatus_ApprovalGate(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusCompleted)
	gated := tpl.Items[0]

	svc := &Service{
		checklists: lockedChecklistMock(cl, &[]stateChange{}),
		approvals: &approvalRepoMock{
			ListUnapprovedFunc: func(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
				return []uuid.UUID{gated.ID}, nil
			},
		},
		tx:  defaultTxMock(),
		log: slog.Default(),
	}

	_, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusApproved,
	})

	var gateErr *domain.ApprovalGateError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected ApprovalGateError, got %v", err)
	}
	if len(gateErr.ItemIDs) != 1 || gateErr.ItemIDs[0] != gated.ID {
		t.Errorf("gate items: got %v, want [%s]", gateErr.ItemIDs, gated.ID)
	}
}

func TestService_SetStatus_ApprovesWhenAllDecided(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusCompleted)
	completedAt := time.Date(2025, time.March, 3, 15, 12, 0, 0, time.UTC)
	cl.CompletedAt = &completedAt

	var changes []stateChange

	svc := &Service{
		checklists: lockedChecklistMock(cl, &changes),
		approvals: &approvalRepoMock{
			ListUnapprovedFunc: func(ctx context.Context, checklistID uuid.UUID) ([]uuid.UUID, error) {
				return nil, nil
			},
		},
		audit: defaultAuditMock(),
		tx:    defaultTxMock(),
		log:   slog.Default(),
	}

	got, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusApproved,
	})
	if err != nil {
		t.Fatalf("SetStatus: unexpected error: %v", err)
	}
	if got.Status != domain.ChecklistStatusApproved {
		t.Errorf("status: got %s, want %s", got.Status, domain.ChecklistStatusApproved)
	}
	// Approval keeps the original completion timestamp.
	if len(changes) != 1 || changes[0].completedAt == nil || !changes[0].completedAt.Equal(completedAt) {
		t.Fatalf("expected the original completion timestamp, got %+v", changes)
	}
}

func TestService_SetStatus_RejectRequiresNotes(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusCompleted)

	svc := &Service{
		checklists: lockedChecklistMock(cl, &[]stateChange{}),
		tx:         defaultTxMock(),
		log:        slog.Default(),
	}

	_, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusRejected,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation without notes, got %v", err)
	}
}

func TestService_SetStatus_RejectStoresNotes(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusCompleted)
	notes := "redo the stock count, numbers do not add up"

	var changes []stateChange

	svc := &Service{
		checklists: lockedChecklistMock(cl, &changes),
		audit:      defaultAuditMock(),
		tx:         defaultTxMock(),
		log:        slog.Default(),
	}

	got, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusRejected,
		Notes:       &notes,
	})
	if err != nil {
		t.Fatalf("SetStatus: unexpected error: %v", err)
	}
	if got.ReviewNotes == nil || *got.ReviewNotes != notes {
		t.Errorf("review notes: got %v, want %q", got.ReviewNotes, notes)
	}
	if len(changes) != 1 || changes[0].reviewNotes == nil || *changes[0].reviewNotes != notes {
		t.Fatalf("expected rejection notes in UpdateState, got %+v", changes)
	}
}

func TestService_SetStatus_ReopenClearsCompletion(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusRejected)
	completedAt := time.Date(2025, time.March, 3, 15, 12, 0, 0, time.UTC)
	notes := "redo the stock count"
	cl.CompletedAt = &completedAt
	cl.ReviewNotes = &notes

	var changes []stateChange

	svc := &Service{
		checklists: lockedChecklistMock(cl, &changes),
		audit:      defaultAuditMock(),
		tx:         defaultTxMock(),
		log:        slog.Default(),
	}

	got, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusInProgress,
	})
	if err != nil {
		t.Fatalf("SetStatus: unexpected error: %v", err)
	}
	if got.CompletedAt != nil {
		t.Error("expected the completion timestamp cleared on reopen")
	}
	if len(changes) != 1 || changes[0].completedAt != nil {
		t.Fatalf("expected UpdateState with a cleared timestamp, got %+v", changes)
	}
	// The rejection notes stay visible to whoever reworks the checklist.
	if changes[0].reviewNotes == nil || *changes[0].reviewNotes != notes {
		t.Errorf("expected review notes retained, got %v", changes[0].reviewNotes)
	}
}

func TestService_SetStatus_IllegalTransition(t *testing.T) {
	t.Parallel()

	tpl := testTemplate()
	cl := testChecklist(tpl, domain.ChecklistStatusPending)

	svc := &Service{
		checklists: lockedChecklistMock(cl, &[]stateChange{}),
		tx:         defaultTxMock(),
		log:        slog.Default(),
	}

	_, err := svc.SetStatus(authedCtx(uuid.New()), SetStatusInput{
		ChecklistID: cl.ID,
		Status:      domain.ChecklistStatusCompleted,
	})

	var trErr *domain.TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if trErr.From != domain.ChecklistStatusPending || trErr.To != domain.ChecklistStatusCompleted {
		t.Errorf("transition: got %s to %s, want %s to %s",
			trErr.From, trErr.To, domain.ChecklistStatusPending, domain.ChecklistStatusCompleted)
	}
}

func TestService_SetStatus_RequiresAuth(t *testing.T) {
	t.Parallel()

	svc := &Service{log: slog.Default()}

	_, err := svc.SetStatus(context.Background(), SetStatusInput{
		ChecklistID: uuid.New(),
		Status:      domain.ChecklistStatusInProgress,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

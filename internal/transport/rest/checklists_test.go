package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/checklist"
)

var (
	testChecklistID = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	testItemID      = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

func testChecklist() *domain.Checklist {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return &domain.Checklist{
		ID:             testChecklistID,
		TemplateID:     uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		PropertyID:     uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		OccurrenceDate: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		DueAt:          time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		Status:         domain.ChecklistStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newChecklistHandler(svc *checklistServiceMock, audit *auditReaderMock) *ChecklistHandler {
	if audit == nil {
		audit = &auditReaderMock{}
	}
	return NewChecklistHandler(svc, audit, slog.Default())
}

func checklistItemReq(method, action, body string) *http.Request {
	var r *http.Request
	url := "/api/v1/checklists/" + testChecklistID.String() + "/items/" + testItemID.String() + "/" + action
	if body == "" {
		r = httptest.NewRequest(method, url, nil)
	} else {
		r = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	r.SetPathValue("id", testChecklistID.String())
	r.SetPathValue("itemID", testItemID.String())
	return r
}

func TestChecklistGet_Detail(t *testing.T) {
	t.Parallel()

	responseID := uuid.MustParse("77777777-7777-7777-7777-777777777777")
	reviewer := uuid.MustParse("88888888-8888-8888-8888-888888888888")
	svc := &checklistServiceMock{
		GetFunc: func(_ context.Context, id uuid.UUID) (*domain.ChecklistDetail, error) {
			if id != testChecklistID {
				t.Errorf("unexpected id %s", id)
			}
			return &domain.ChecklistDetail{
				Checklist:    *testChecklist(),
				TemplateName: "Weekly Fire Safety",
				Items: []domain.ChecklistItem{
					{
						Item: domain.TemplateItem{ID: testItemID, Position: 1, Title: "Check extinguishers", DataType: domain.ItemDataTypeBoolean},
						Response: &domain.ItemResponse{
							ID:          responseID,
							ChecklistID: testChecklistID,
							ItemID:      testItemID,
							Value:       "true",
							CompletedBy: reviewer,
							CompletedAt: time.Date(2024, 3, 11, 8, 30, 0, 0, time.UTC),
						},
						Approval: &domain.ItemApproval{
							ID:         uuid.New(),
							ResponseID: responseID,
							Decision:   domain.ApprovalDecisionApproved,
							ReviewedBy: reviewer,
							DecidedAt:  time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC),
						},
					},
					{
						Item: domain.TemplateItem{ID: uuid.New(), Position: 2, Title: "Check exits", DataType: domain.ItemDataTypeText},
					},
				},
			}, nil
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checklists/"+testChecklistID.String(), nil)
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp checklistDetailJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TemplateName != "Weekly Fire Safety" {
		t.Errorf("expected template name, got %q", resp.TemplateName)
	}
	if resp.OccurrenceDate != "2024-03-11" {
		t.Errorf("expected occurrence_date 2024-03-11, got %q", resp.OccurrenceDate)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].Response == nil || resp.Items[0].Response.Value != "true" {
		t.Errorf("expected completed first item, got %+v", resp.Items[0].Response)
	}
	if resp.Items[0].Approval == nil || resp.Items[0].Approval.Decision != "APPROVED" {
		t.Errorf("expected approved first item, got %+v", resp.Items[0].Approval)
	}
	if resp.Items[1].Response != nil {
		t.Error("expected second item to have no response")
	}
}

func TestChecklistList_DueToInclusive(t *testing.T) {
	t.Parallel()

	var got checklist.ListInput
	svc := &checklistServiceMock{
		ListFunc: func(_ context.Context, input checklist.ListInput) ([]domain.Checklist, int, error) {
			got = input
			return []domain.Checklist{*testChecklist()}, 1, nil
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checklists?due_from=2024-03-01&due_to=2024-03-31&status=PENDING", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.DueFrom == nil || !got.DueFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected due_from at UTC midnight, got %v", got.DueFrom)
	}
	wantTo := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	if got.DueTo == nil || !got.DueTo.Equal(wantTo) {
		t.Errorf("expected due_to at end of day, got %v", got.DueTo)
	}
	if got.Status == nil || *got.Status != domain.ChecklistStatusPending {
		t.Errorf("expected PENDING status filter, got %v", got.Status)
	}
}

func TestChecklistList_BadDate(t *testing.T) {
	t.Parallel()

	h := newChecklistHandler(&checklistServiceMock{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checklists?due_from=March+1st", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestChecklistAssign_SetsAssignee(t *testing.T) {
	t.Parallel()

	assignee := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	var got checklist.AssignInput
	svc := &checklistServiceMock{
		AssignFunc: func(_ context.Context, input checklist.AssignInput) (*domain.Checklist, error) {
			got = input
			cl := testChecklist()
			cl.AssignedTo = &assignee
			return cl, nil
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checklists/"+testChecklistID.String()+"/assign",
		strings.NewReader(`{"assignee_id": "99999999-9999-9999-9999-999999999999"}`))
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.Assign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.AssigneeID == nil || *got.AssigneeID != assignee {
		t.Errorf("expected assignee %s, got %v", assignee, got.AssigneeID)
	}

	var resp checklistJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AssignedTo == nil || *resp.AssignedTo != assignee.String() {
		t.Errorf("expected assigned_to in response, got %v", resp.AssignedTo)
	}
}

func TestChecklistAssign_NullClears(t *testing.T) {
	t.Parallel()

	var got checklist.AssignInput
	svc := &checklistServiceMock{
		AssignFunc: func(_ context.Context, input checklist.AssignInput) (*domain.Checklist, error) {
			got = input
			return testChecklist(), nil
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checklists/"+testChecklistID.String()+"/assign",
		strings.NewReader(`{"assignee_id": null}`))
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.Assign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.AssigneeID != nil {
		t.Errorf("expected nil assignee, got %v", got.AssigneeID)
	}
}

func TestChecklistSetStatus_InvalidTransition(t *testing.T) {
	t.Parallel()

	svc := &checklistServiceMock{
		SetStatusFunc: func(_ context.Context, _ checklist.SetStatusInput) (*domain.Checklist, error) {
			return nil, &domain.TransitionError{From: domain.ChecklistStatusPending, To: domain.ChecklistStatusApproved}
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checklists/"+testChecklistID.String()+"/status",
		strings.NewReader(`{"status": "APPROVED"}`))
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.SetStatus(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CurrentStatus != "PENDING" {
		t.Errorf("expected current_status PENDING, got %q", resp.CurrentStatus)
	}
	if resp.AttemptedStatus != "APPROVED" {
		t.Errorf("expected attempted_status APPROVED, got %q", resp.AttemptedStatus)
	}
}

func TestChecklistSetStatus_ApprovalGate(t *testing.T) {
	t.Parallel()

	blocked := []uuid.UUID{uuid.New(), uuid.New()}
	svc := &checklistServiceMock{
		SetStatusFunc: func(_ context.Context, _ checklist.SetStatusInput) (*domain.Checklist, error) {
			return nil, &domain.ApprovalGateError{Reason: "items awaiting approval", ItemIDs: blocked}
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checklists/"+testChecklistID.String()+"/status",
		strings.NewReader(`{"status": "APPROVED"}`))
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.SetStatus(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.ItemIDs) != 2 {
		t.Fatalf("expected 2 item ids, got %v", resp.ItemIDs)
	}
	if resp.ItemIDs[0] != blocked[0].String() {
		t.Errorf("expected item id %s, got %s", blocked[0], resp.ItemIDs[0])
	}
}

func TestChecklistSetStatus_PassesNotes(t *testing.T) {
	t.Parallel()

	var got checklist.SetStatusInput
	svc := &checklistServiceMock{
		SetStatusFunc: func(_ context.Context, input checklist.SetStatusInput) (*domain.Checklist, error) {
			got = input
			cl := testChecklist()
			cl.Status = domain.ChecklistStatusRejected
			return cl, nil
		},
	}
	h := newChecklistHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checklists/"+testChecklistID.String()+"/status",
		strings.NewReader(`{"status": "REJECTED", "notes": "redo the meter readings"}`))
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.SetStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.Status != domain.ChecklistStatusRejected {
		t.Errorf("expected REJECTED, got %s", got.Status)
	}
	if got.Notes == nil || *got.Notes != "redo the meter readings" {
		t.Errorf("expected notes passed through, got %v", got.Notes)
	}
}

func TestChecklistCompleteItem_OK(t *testing.T) {
	t.Parallel()

	var got checklist.CompleteItemInput
	svc := &checklistServiceMock{
		CompleteItemFunc: func(_ context.Context, input checklist.CompleteItemInput) (*domain.Checklist, error) {
			got = input
			cl := testChecklist()
			cl.Status = domain.ChecklistStatusInProgress
			return cl, nil
		},
	}
	h := newChecklistHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.CompleteItem(rec, checklistItemReq(http.MethodPost, "complete", `{"value": "42", "notes": "meter read at 8am"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.ChecklistID != testChecklistID || got.ItemID != testItemID {
		t.Errorf("expected ids from path, got %+v", got)
	}
	if got.Value != "42" {
		t.Errorf("expected value 42, got %q", got.Value)
	}

	var resp checklistJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "IN_PROGRESS" {
		t.Errorf("expected IN_PROGRESS, got %q", resp.Status)
	}
}

func TestChecklistUncompleteItem_Conflict(t *testing.T) {
	t.Parallel()

	svc := &checklistServiceMock{
		UncompleteItemFunc: func(_ context.Context, _ checklist.UncompleteItemInput) (*domain.Checklist, error) {
			return nil, domain.ErrConflict
		},
	}
	h := newChecklistHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.UncompleteItem(rec, checklistItemReq(http.MethodPost, "uncomplete", ""))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestChecklistRejectItem_PassesNotes(t *testing.T) {
	t.Parallel()

	var got checklist.ReviewItemInput
	svc := &checklistServiceMock{
		RejectItemFunc: func(_ context.Context, input checklist.ReviewItemInput) (*domain.Checklist, error) {
			got = input
			return testChecklist(), nil
		},
	}
	h := newChecklistHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.RejectItem(rec, checklistItemReq(http.MethodPost, "reject", `{"notes": "photo is blurry"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.Notes == nil || *got.Notes != "photo is blurry" {
		t.Errorf("expected notes passed through, got %v", got.Notes)
	}
}

func TestChecklistApproveItem_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &checklistServiceMock{
		ApproveItemFunc: func(_ context.Context, _ checklist.ReviewItemInput) (*domain.Checklist, error) {
			return nil, domain.NewValidationError("notes", "required when rejecting")
		},
	}
	h := newChecklistHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.ApproveItem(rec, checklistItemReq(http.MethodPost, "approve", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestChecklistHistory_OK(t *testing.T) {
	t.Parallel()

	actor := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	audit := &auditReaderMock{
		ListByEntityFunc: func(_ context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
			if entityType != domain.EntityTypeChecklist {
				t.Errorf("expected checklist entity type, got %s", entityType)
			}
			if entityID != testChecklistID {
				t.Errorf("unexpected entity id %s", entityID)
			}
			if limit != defaultAuditLimit {
				t.Errorf("expected default limit %d, got %d", defaultAuditLimit, limit)
			}
			return []domain.AuditRecord{
				{
					ID:         uuid.New(),
					ActorID:    &actor,
					EntityType: domain.EntityTypeChecklist,
					EntityID:   testChecklistID,
					Action:     domain.AuditActionStatusChange,
					Changes:    map[string]any{"status": "COMPLETED"},
					CreatedAt:  time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	h := newChecklistHandler(&checklistServiceMock{}, audit)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checklists/"+testChecklistID.String()+"/history", nil)
	req.SetPathValue("id", testChecklistID.String())
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []auditRecordJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp))
	}
	if resp[0].Action != "STATUS_CHANGE" {
		t.Errorf("expected STATUS_CHANGE action, got %q", resp[0].Action)
	}
	if resp[0].ActorID == nil || *resp[0].ActorID != actor.String() {
		t.Errorf("expected actor id, got %v", resp[0].ActorID)
	}
}

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
	"github.com/opsrota/opsrota-backend/internal/service/generation"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

func authenticated(r *http.Request) *http.Request {
	return r.WithContext(ctxutil.WithUserID(r.Context(), uuid.New()))
}

func TestGenerationRun_Unauthenticated(t *testing.T) {
	t.Parallel()

	called := false
	svc := &generationServiceMock{
		RunFunc: func(_ context.Context, _ time.Time, _ domain.TriggerSource) (generation.Report, error) {
			called = true
			return generation.Report{}, nil
		},
	}
	h := NewGenerationHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generation/run", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if called {
		t.Error("expected service not to be called")
	}
}

func TestGenerationRun_NoBody(t *testing.T) {
	t.Parallel()

	var gotSource domain.TriggerSource
	var gotAsOf time.Time
	svc := &generationServiceMock{
		RunFunc: func(_ context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error) {
			gotAsOf = asOf
			gotSource = source
			return generation.Report{AsOf: asOf, TriggeredBy: source.String(), Created: 2, Skipped: 1}, nil
		},
	}
	h := NewGenerationHandler(svc, slog.Default())

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/generation/run", nil))
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotSource != domain.TriggerSourceManual {
		t.Errorf("expected MANUAL trigger, got %s", gotSource)
	}
	if time.Since(gotAsOf) > time.Minute {
		t.Errorf("expected as_of to default to now, got %v", gotAsOf)
	}

	var resp generationReportJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Created != 2 || resp.Skipped != 1 {
		t.Errorf("expected created 2 skipped 1, got %d/%d", resp.Created, resp.Skipped)
	}
	if resp.TriggeredBy != "MANUAL" {
		t.Errorf("expected triggered_by MANUAL, got %q", resp.TriggeredBy)
	}
}

func TestGenerationRun_Backfill(t *testing.T) {
	t.Parallel()

	var gotAsOf time.Time
	svc := &generationServiceMock{
		RunFunc: func(_ context.Context, asOf time.Time, _ domain.TriggerSource) (generation.Report, error) {
			gotAsOf = asOf
			return generation.Report{AsOf: asOf, TriggeredBy: "MANUAL"}, nil
		},
	}
	h := NewGenerationHandler(svc, slog.Default())

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/generation/run",
		strings.NewReader(`{"as_of": "2024-03-11"}`)))
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !gotAsOf.Equal(want) {
		t.Errorf("expected as_of %v, got %v", want, gotAsOf)
	}

	var resp generationReportJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AsOf != "2024-03-11" {
		t.Errorf("expected as_of 2024-03-11 in report, got %q", resp.AsOf)
	}
}

func TestGenerationRun_BadAsOf(t *testing.T) {
	t.Parallel()

	h := NewGenerationHandler(&generationServiceMock{}, slog.Default())

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/generation/run",
		strings.NewReader(`{"as_of": "yesterday"}`)))
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestGenerationRun_ReportsFailures(t *testing.T) {
	t.Parallel()

	tplID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	svc := &generationServiceMock{
		RunFunc: func(_ context.Context, asOf time.Time, _ domain.TriggerSource) (generation.Report, error) {
			return generation.Report{
				AsOf:        asOf,
				TriggeredBy: "MANUAL",
				Created:     1,
				PerTemplate: []generation.Summary{
					{TemplateID: tplID, TemplateName: "Weekly Fire Safety", Created: 1},
				},
				Failures: []generation.TemplateFailure{
					{TemplateID: uuid.New(), TemplateName: "Broken", Reason: "lookup failed"},
				},
			}, nil
		},
	}
	h := NewGenerationHandler(svc, slog.Default())

	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/generation/run", nil))
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp generationReportJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.PerTemplate) != 1 || resp.PerTemplate[0].TemplateName != "Weekly Fire Safety" {
		t.Errorf("expected per-template summary, got %+v", resp.PerTemplate)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].Reason != "lookup failed" {
		t.Errorf("expected failure entry, got %+v", resp.Failures)
	}
}

func TestGenerationHistory_OK(t *testing.T) {
	t.Parallel()

	tplID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	svc := &generationServiceMock{
		HistoryFunc: func(_ context.Context, templateID uuid.UUID, limit int) ([]domain.GenerationRecord, error) {
			if templateID != tplID {
				t.Errorf("unexpected template id %s", templateID)
			}
			if limit != 10 {
				t.Errorf("expected limit 10, got %d", limit)
			}
			return []domain.GenerationRecord{
				{
					ID:             uuid.New(),
					TemplateID:     tplID,
					PropertyID:     uuid.New(),
					OccurrenceDate: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
					TriggeredBy:    domain.TriggerSourceScheduled,
					GeneratedAt:    time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	h := NewGenerationHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/"+tplID.String()+"/generations?limit=10", nil)
	req.SetPathValue("id", tplID.String())
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []generationRecordJSON
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp))
	}
	if resp[0].OccurrenceDate != "2024-03-11" {
		t.Errorf("expected occurrence_date 2024-03-11, got %q", resp[0].OccurrenceDate)
	}
	if resp[0].TriggeredBy != "SCHEDULED" {
		t.Errorf("expected SCHEDULED, got %q", resp[0].TriggeredBy)
	}
}

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProperty creates an active property with a manager. Returns a filled
// domain.Property.
func SeedProperty(t *testing.T, pool *pgxpool.Pool) domain.Property {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	managerID := uuid.New()
	address := "1 Test Street " + suffix
	prop := domain.Property{
		ID:        uuid.New(),
		Name:      "Property " + suffix,
		Address:   &address,
		ManagerID: &managerID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO properties (id, name, address, manager_id, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		prop.ID, prop.Name, prop.Address, prop.ManagerID, prop.Active, prop.CreatedAt, prop.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProperty insert property: %v", err)
	}

	return prop
}

// SeedTemplate creates an active daily template with three items: a required
// item that needs approval, a plain required item, and an optional one.
// Returns a filled domain.ChecklistTemplate.
func SeedTemplate(t *testing.T, pool *pgxpool.Pool) domain.ChecklistTemplate {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	tpl := domain.ChecklistTemplate{
		ID:   uuid.New(),
		Name: "Template " + suffix,
		Schedule: domain.Schedule{
			Frequency:   domain.FrequencyDaily,
			Interval:    1,
			TimeOfDay:   domain.TimeOfDay{Hour: 9},
			AdvanceDays: 1,
			StartDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO checklist_templates
		   (id, name, frequency, recur_interval, days_of_week, day_of_month,
		    time_of_day, advance_days, start_date, end_date, auto_assign,
		    active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		tpl.ID, tpl.Name, string(tpl.Schedule.Frequency), tpl.Schedule.Interval,
		[]int32{}, 0, tpl.Schedule.TimeOfDay.String(), tpl.Schedule.AdvanceDays,
		tpl.Schedule.StartDate, nil, tpl.Schedule.AutoAssign,
		tpl.Active, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTemplate insert template: %v", err)
	}

	items := []domain.TemplateItem{
		{Position: 1, Title: "Check fire extinguishers " + suffix, DataType: domain.ItemDataTypeBoolean, Required: true, RequiresApproval: true},
		{Position: 2, Title: "Record water meter " + suffix, DataType: domain.ItemDataTypeNumber, Required: true},
		{Position: 3, Title: "Lobby photo " + suffix, DataType: domain.ItemDataTypePhoto},
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].TemplateID = tpl.ID
		items[i].CreatedAt = now

		_, err := pool.Exec(ctx,
			`INSERT INTO template_items
			   (id, template_id, position, title, data_type, required, requires_approval, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			items[i].ID, items[i].TemplateID, items[i].Position, items[i].Title,
			string(items[i].DataType), items[i].Required, items[i].RequiresApproval, items[i].CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedTemplate insert item[%d]: %v", i, err)
		}
	}
	tpl.Items = items

	return tpl
}

// AssignTemplate links a template to a property in the assignment table.
func AssignTemplate(t *testing.T, pool *pgxpool.Pool, templateID, propertyID uuid.UUID) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO template_assignments (template_id, property_id, created_at)
		 VALUES ($1, $2, now())`,
		templateID, propertyID,
	)
	if err != nil {
		t.Fatalf("testhelper: AssignTemplate insert: %v", err)
	}
}

// SeedResponse records a completed response on a checklist item.
// Returns a filled domain.ItemResponse.
func SeedResponse(t *testing.T, pool *pgxpool.Pool, checklistID, itemID uuid.UUID, value string) domain.ItemResponse {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	resp := domain.ItemResponse{
		ID:          uuid.New(),
		ChecklistID: checklistID,
		ItemID:      itemID,
		Value:       value,
		CompletedBy: uuid.New(),
		CompletedAt: now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO item_responses
		   (id, checklist_id, item_id, value, notes, completed_by, completed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		resp.ID, resp.ChecklistID, resp.ItemID, resp.Value, resp.Notes,
		resp.CompletedBy, resp.CompletedAt, resp.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedResponse insert: %v", err)
	}

	return resp
}

// SeedChecklist creates a pending checklist for the given template and
// property on the given occurrence date, together with its generation
// record. Returns a filled domain.Checklist.
func SeedChecklist(t *testing.T, pool *pgxpool.Pool, tpl domain.ChecklistTemplate, propertyID uuid.UUID, occurrence time.Time) domain.Checklist {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	cl := domain.Checklist{
		ID:             uuid.New(),
		TemplateID:     tpl.ID,
		PropertyID:     propertyID,
		OccurrenceDate: domain.DateOf(occurrence),
		DueAt:          tpl.Schedule.TimeOfDay.On(occurrence),
		Status:         domain.ChecklistStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO generation_records (id, template_id, property_id, occurrence_date, triggered_by, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), cl.TemplateID, cl.PropertyID, cl.OccurrenceDate, string(domain.TriggerSourceManual), now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChecklist insert generation record: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO checklists
		   (id, template_id, property_id, occurrence_date, due_at, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cl.ID, cl.TemplateID, cl.PropertyID, cl.OccurrenceDate, cl.DueAt, string(cl.Status), cl.CreatedAt, cl.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChecklist insert checklist: %v", err)
	}

	return cl
}

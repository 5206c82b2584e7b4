package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
)

// dateLayout is the wire format for civil dates (occurrence dates,
// schedule bounds). Timestamps stay RFC 3339.
const dateLayout = "2006-01-02"

// listJSON is the envelope for paginated collections.
type listJSON[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type scheduleJSON struct {
	Frequency   string  `json:"frequency"`
	Interval    int     `json:"interval"`
	DaysOfWeek  []int   `json:"days_of_week,omitempty"`
	DayOfMonth  int     `json:"day_of_month,omitempty"`
	TimeOfDay   string  `json:"time_of_day"`
	AdvanceDays int     `json:"advance_days"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	AutoAssign  bool    `json:"auto_assign"`
}

func toScheduleJSON(s domain.Schedule) scheduleJSON {
	out := scheduleJSON{
		Frequency:   s.Frequency.String(),
		Interval:    s.Interval,
		DayOfMonth:  s.DayOfMonth,
		TimeOfDay:   s.TimeOfDay.String(),
		AdvanceDays: s.AdvanceDays,
		StartDate:   s.StartDate.Format(dateLayout),
		AutoAssign:  s.AutoAssign,
	}
	for _, d := range s.DaysOfWeek {
		out.DaysOfWeek = append(out.DaysOfWeek, int(d))
	}
	if s.EndDate != nil {
		end := s.EndDate.Format(dateLayout)
		out.EndDate = &end
	}
	return out
}

// toDomain parses the wire schedule. Field-format failures come back as
// validation errors; semantic checks happen in the service layer.
func (j scheduleJSON) toDomain() (domain.Schedule, error) {
	var errs []domain.FieldError

	tod, err := domain.ParseTimeOfDay(j.TimeOfDay)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "time_of_day", Message: "must be HH:MM"})
	}
	start, err := time.ParseInLocation(dateLayout, j.StartDate, time.UTC)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	var end *time.Time
	if j.EndDate != nil {
		e, err := time.ParseInLocation(dateLayout, *j.EndDate, time.UTC)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		} else {
			end = &e
		}
	}
	if len(errs) > 0 {
		return domain.Schedule{}, domain.NewValidationErrors(errs)
	}

	s := domain.Schedule{
		Frequency:   domain.Frequency(j.Frequency),
		Interval:    j.Interval,
		DayOfMonth:  j.DayOfMonth,
		TimeOfDay:   tod,
		AdvanceDays: j.AdvanceDays,
		StartDate:   start,
		EndDate:     end,
		AutoAssign:  j.AutoAssign,
	}
	for _, d := range j.DaysOfWeek {
		s.DaysOfWeek = append(s.DaysOfWeek, time.Weekday(d))
	}
	return s, nil
}

type templateItemJSON struct {
	ID               string  `json:"id"`
	Position         int     `json:"position"`
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	DataType         string  `json:"data_type"`
	Required         bool    `json:"required"`
	RequiresApproval bool    `json:"requires_approval"`
}

func toTemplateItemJSON(item domain.TemplateItem) templateItemJSON {
	return templateItemJSON{
		ID:               item.ID.String(),
		Position:         item.Position,
		Title:            item.Title,
		Description:      item.Description,
		DataType:         item.DataType.String(),
		Required:         item.Required,
		RequiresApproval: item.RequiresApproval,
	}
}

type templateJSON struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	Schedule       scheduleJSON       `json:"schedule"`
	Active         bool               `json:"active"`
	RetiredAt      *time.Time         `json:"retired_at,omitempty"`
	NextOccurrence *string            `json:"next_occurrence,omitempty"`
	Items          []templateItemJSON `json:"items,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func toTemplateJSON(tpl *domain.ChecklistTemplate, next *time.Time) templateJSON {
	out := templateJSON{
		ID:          tpl.ID.String(),
		Name:        tpl.Name,
		Description: tpl.Description,
		Schedule:    toScheduleJSON(tpl.Schedule),
		Active:      tpl.Active,
		RetiredAt:   tpl.RetiredAt,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}
	if next != nil {
		d := next.Format(dateLayout)
		out.NextOccurrence = &d
	}
	for _, item := range tpl.Items {
		out.Items = append(out.Items, toTemplateItemJSON(item))
	}
	return out
}

type propertyJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	ManagerID *string   `json:"manager_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPropertyJSON(p *domain.Property) propertyJSON {
	return propertyJSON{
		ID:        p.ID.String(),
		Name:      p.Name,
		Address:   p.Address,
		ManagerID: uuidPtrString(p.ManagerID),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type checklistJSON struct {
	ID             string     `json:"id"`
	TemplateID     string     `json:"template_id"`
	PropertyID     string     `json:"property_id"`
	OccurrenceDate string     `json:"occurrence_date"`
	DueAt          time.Time  `json:"due_at"`
	Status         string     `json:"status"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	ReviewNotes    *string    `json:"review_notes,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toChecklistJSON(cl *domain.Checklist) checklistJSON {
	return checklistJSON{
		ID:             cl.ID.String(),
		TemplateID:     cl.TemplateID.String(),
		PropertyID:     cl.PropertyID.String(),
		OccurrenceDate: cl.OccurrenceDate.Format(dateLayout),
		DueAt:          cl.DueAt,
		Status:         cl.Status.String(),
		AssignedTo:     uuidPtrString(cl.AssignedTo),
		ReviewNotes:    cl.ReviewNotes,
		CompletedAt:    cl.CompletedAt,
		CreatedAt:      cl.CreatedAt,
		UpdatedAt:      cl.UpdatedAt,
	}
}

type itemResponseJSON struct {
	ID          string    `json:"id"`
	Value       string    `json:"value"`
	Notes       *string   `json:"notes,omitempty"`
	CompletedBy string    `json:"completed_by"`
	CompletedAt time.Time `json:"completed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type itemApprovalJSON struct {
	Decision   string    `json:"decision"`
	Notes      *string   `json:"notes,omitempty"`
	ReviewedBy string    `json:"reviewed_by"`
	DecidedAt  time.Time `json:"decided_at"`
}

type checklistItemJSON struct {
	Item     templateItemJSON  `json:"item"`
	Response *itemResponseJSON `json:"response,omitempty"`
	Approval *itemApprovalJSON `json:"approval,omitempty"`
}

type checklistDetailJSON struct {
	checklistJSON
	TemplateName string              `json:"template_name"`
	Items        []checklistItemJSON `json:"items"`
}

func toChecklistDetailJSON(detail *domain.ChecklistDetail) checklistDetailJSON {
	out := checklistDetailJSON{
		checklistJSON: toChecklistJSON(&detail.Checklist),
		TemplateName:  detail.TemplateName,
		Items:         make([]checklistItemJSON, 0, len(detail.Items)),
	}
	for _, ci := range detail.Items {
		item := checklistItemJSON{Item: toTemplateItemJSON(ci.Item)}
		if ci.Response != nil {
			item.Response = &itemResponseJSON{
				ID:          ci.Response.ID.String(),
				Value:       ci.Response.Value,
				Notes:       ci.Response.Notes,
				CompletedBy: ci.Response.CompletedBy.String(),
				CompletedAt: ci.Response.CompletedAt,
				UpdatedAt:   ci.Response.UpdatedAt,
			}
		}
		if ci.Approval != nil {
			item.Approval = &itemApprovalJSON{
				Decision:   ci.Approval.Decision.String(),
				Notes:      ci.Approval.Notes,
				ReviewedBy: ci.Approval.ReviewedBy.String(),
				DecidedAt:  ci.Approval.DecidedAt,
			}
		}
		out.Items = append(out.Items, item)
	}
	return out
}

type generationRecordJSON struct {
	ID             string    `json:"id"`
	TemplateID     string    `json:"template_id"`
	PropertyID     string    `json:"property_id"`
	OccurrenceDate string    `json:"occurrence_date"`
	TriggeredBy    string    `json:"triggered_by"`
	GeneratedAt    time.Time `json:"generated_at"`
}

func toGenerationRecordJSON(rec domain.GenerationRecord) generationRecordJSON {
	return generationRecordJSON{
		ID:             rec.ID.String(),
		TemplateID:     rec.TemplateID.String(),
		PropertyID:     rec.PropertyID.String(),
		OccurrenceDate: rec.OccurrenceDate.Format(dateLayout),
		TriggeredBy:    rec.TriggeredBy.String(),
		GeneratedAt:    rec.GeneratedAt,
	}
}

type generationSummaryJSON struct {
	TemplateID   string   `json:"template_id"`
	TemplateName string   `json:"template_name"`
	Created      int      `json:"created"`
	Skipped      int      `json:"skipped"`
	Warnings     []string `json:"warnings,omitempty"`
}

type generationFailureJSON struct {
	TemplateID   string `json:"template_id"`
	TemplateName string `json:"template_name"`
	Reason       string `json:"reason"`
}

type generationReportJSON struct {
	AsOf        string                  `json:"as_of"`
	TriggeredBy string                  `json:"triggered_by"`
	Created     int                     `json:"created"`
	Skipped     int                     `json:"skipped"`
	PerTemplate []generationSummaryJSON `json:"per_template"`
	Failures    []generationFailureJSON `json:"failures,omitempty"`
}

func toGenerationReportJSON(report generation.Report) generationReportJSON {
	out := generationReportJSON{
		AsOf:        report.AsOf.Format(dateLayout),
		TriggeredBy: report.TriggeredBy,
		Created:     report.Created,
		Skipped:     report.Skipped,
		PerTemplate: make([]generationSummaryJSON, 0, len(report.PerTemplate)),
	}
	for _, s := range report.PerTemplate {
		out.PerTemplate = append(out.PerTemplate, generationSummaryJSON{
			TemplateID:   s.TemplateID.String(),
			TemplateName: s.TemplateName,
			Created:      s.Created,
			Skipped:      s.Skipped,
			Warnings:     s.Warnings,
		})
	}
	for _, f := range report.Failures {
		out.Failures = append(out.Failures, generationFailureJSON{
			TemplateID:   f.TemplateID.String(),
			TemplateName: f.TemplateName,
			Reason:       f.Reason,
		})
	}
	return out
}

type auditRecordJSON struct {
	ID        string         `json:"id"`
	ActorID   *string        `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func toAuditRecordJSON(rec domain.AuditRecord) auditRecordJSON {
	return auditRecordJSON{
		ID:        rec.ID.String(),
		ActorID:   uuidPtrString(rec.ActorID),
		Action:    rec.Action.String(),
		Changes:   rec.Changes,
		CreatedAt: rec.CreatedAt,
	}
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation/recur"
	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

// GenerateTemplate materializes one template's occurrences inside the
// window [asOf, asOf+advance_days] for every assigned active property.
// Each (occurrence, property) pair is generated in its own transaction:
// the generation record insert is the idempotency gate, so an occurrence
// already generated by an earlier or concurrent run counts as skipped,
// never as an error.
func (s *Service) GenerateTemplate(ctx context.Context, tpl *domain.ChecklistTemplate, asOf time.Time, source domain.TriggerSource) (Summary, error) {
	summary := Summary{TemplateID: tpl.ID, TemplateName: tpl.Name}

	if !tpl.IsGenerable() {
		return summary, nil
	}

	windowStart := domain.DateOf(asOf)
	windowEnd := windowStart.AddDate(0, 0, tpl.Schedule.AdvanceDays)

	occurrences := recur.Resolve(tpl.Schedule, windowStart, windowEnd)
	if len(occurrences) == 0 {
		return summary, nil
	}

	properties, err := s.properties.ListActiveForTemplate(ctx, tpl.ID)
	if err != nil {
		return summary, fmt.Errorf("list properties for template: %w", err)
	}
	if len(properties) == 0 {
		summary.Warnings = append(summary.Warnings, "no active properties assigned")
		return summary, nil
	}

	var actor *uuid.UUID
	if userID, ok := ctxutil.UserIDFromCtx(ctx); ok {
		actor = &userID
	}

	for _, occ := range occurrences {
		for _, prop := range properties {
			created, warning, err := s.generateInstance(ctx, tpl, prop, occ, source, actor)
			if err != nil {
				return summary, err
			}
			if warning != "" {
				summary.Warnings = append(summary.Warnings, warning)
			}
			if created {
				summary.Created++
			} else {
				summary.Skipped++
			}
		}
	}

	return summary, nil
}

// generateInstance creates the generation record and the checklist for
// one (occurrence, property) pair atomically. Returns created=false when
// the occurrence was already claimed.
func (s *Service) generateInstance(ctx context.Context, tpl *domain.ChecklistTemplate, prop domain.Property, occ time.Time, source domain.TriggerSource, actor *uuid.UUID) (created bool, warning string, err error) {
	now := time.Now().UTC()

	var assignee *uuid.UUID
	if tpl.Schedule.AutoAssign {
		if prop.ManagerID != nil {
			assignee = prop.ManagerID
		} else {
			warning = fmt.Sprintf("property %q has no manager to auto-assign", prop.Name)
		}
	}

	checklist := &domain.Checklist{
		ID:             uuid.New(),
		TemplateID:     tpl.ID,
		PropertyID:     prop.ID,
		OccurrenceDate: occ,
		DueAt:          tpl.Schedule.TimeOfDay.On(occ),
		Status:         domain.ChecklistStatusPending,
		AssignedTo:     assignee,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.records.Create(txCtx, &domain.GenerationRecord{
			ID:             uuid.New(),
			TemplateID:     tpl.ID,
			PropertyID:     prop.ID,
			OccurrenceDate: occ,
			TriggeredBy:    source,
			GeneratedAt:    now,
		}); err != nil {
			return fmt.Errorf("create generation record: %w", err)
		}

		if err := s.checklists.Create(txCtx, checklist); err != nil {
			return fmt.Errorf("create checklist: %w", err)
		}

		if err := s.audit.Log(txCtx, domain.AuditRecord{
			ActorID:    actor,
			EntityType: domain.EntityTypeChecklist,
			EntityID:   checklist.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"template_id":     tpl.ID.String(),
				"property_id":     prop.ID.String(),
				"occurrence_date": occ.Format(time.DateOnly),
				"triggered_by":    source.String(),
			},
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.log.DebugContext(ctx, "occurrence already generated",
				slog.String("template_id", tpl.ID.String()),
				slog.String("property_id", prop.ID.String()),
				slog.Time("occurrence", occ),
			)
			return false, warning, nil
		}
		return false, warning, err
	}

	return true, warning, nil
}

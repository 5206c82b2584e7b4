package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Run executes a full generation pass over every template whose active
// window can reach the generation window anchored at asOf. A failing
// template is recorded in the report and does not stop the rest of the
// batch.
func (s *Service) Run(ctx context.Context, asOf time.Time, source domain.TriggerSource) (Report, error) {
	asOf = domain.DateOf(asOf)
	report := Report{AsOf: asOf, TriggeredBy: source.String()}

	templates, err := s.templates.ListDue(ctx, asOf)
	if err != nil {
		return report, fmt.Errorf("list due templates: %w", err)
	}

	for i := range templates {
		tpl := &templates[i]

		summary, err := s.GenerateTemplate(ctx, tpl, asOf, source)
		if err != nil {
			s.log.ErrorContext(ctx, "template generation failed",
				slog.String("template_id", tpl.ID.String()),
				slog.String("template", tpl.Name),
				slog.String("error", err.Error()),
			)
			report.Failures = append(report.Failures, TemplateFailure{
				TemplateID:   tpl.ID,
				TemplateName: tpl.Name,
				Reason:       err.Error(),
			})
			continue
		}

		report.Created += summary.Created
		report.Skipped += summary.Skipped
		report.PerTemplate = append(report.PerTemplate, summary)
	}

	s.log.InfoContext(ctx, "generation run finished",
		slog.Time("as_of", asOf),
		slog.String("triggered_by", source.String()),
		slog.Int("templates", len(templates)),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", len(report.Failures)),
	)

	return report, nil
}

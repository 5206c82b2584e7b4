package template

import (
	"time"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// TemplateDetail is a template with its items plus the next occurrence
// date, present only when the template can still generate and its
// schedule yields another date.
type TemplateDetail struct {
	Template       domain.ChecklistTemplate
	NextOccurrence *time.Time
}

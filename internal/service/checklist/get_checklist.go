package checklist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Get returns a checklist with every template item joined to its
// current response and approval state, in template order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ChecklistDetail, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("checklist_id", "required")
	}

	cl, err := s.checklists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get checklist: %w", err)
	}

	tpl, err := s.templates.GetByID(ctx, cl.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	responses, err := s.responses.ListByChecklist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	approvals, err := s.approvals.ListByChecklist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}

	respByItem := make(map[uuid.UUID]*domain.ItemResponse, len(responses))
	for i := range responses {
		respByItem[responses[i].ItemID] = &responses[i]
	}
	apprByResponse := make(map[uuid.UUID]*domain.ItemApproval, len(approvals))
	for i := range approvals {
		apprByResponse[approvals[i].ResponseID] = &approvals[i]
	}

	detail := &domain.ChecklistDetail{
		Checklist:    *cl,
		TemplateName: tpl.Name,
		Items:        make([]domain.ChecklistItem, 0, len(tpl.Items)),
	}
	for _, item := range tpl.Items {
		ci := domain.ChecklistItem{Item: item}
		if resp := respByItem[item.ID]; resp != nil {
			ci.Response = resp
			ci.Approval = apprByResponse[resp.ID]
		}
		detail.Items = append(detail.Items, ci)
	}

	return detail, nil
}

package rest

import (
	"net/http"
)

// Handlers groups every REST handler the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Templates  *TemplateHandler
	Properties *PropertyHandler
	Checklists *ChecklistHandler
	Generation *GenerationHandler
}

// NewRouter mounts all routes on a ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/v1/templates", h.Templates.List)
	mux.HandleFunc("POST /api/v1/templates", h.Templates.Create)
	mux.HandleFunc("GET /api/v1/templates/{id}", h.Templates.Get)
	mux.HandleFunc("PATCH /api/v1/templates/{id}", h.Templates.Update)
	mux.HandleFunc("POST /api/v1/templates/{id}/retire", h.Templates.Retire)
	mux.HandleFunc("GET /api/v1/templates/{id}/generations", h.Generation.History)

	mux.HandleFunc("POST /api/v1/generation/run", h.Generation.Run)

	mux.HandleFunc("GET /api/v1/properties", h.Properties.List)
	mux.HandleFunc("POST /api/v1/properties", h.Properties.Create)
	mux.HandleFunc("GET /api/v1/properties/{id}", h.Properties.Get)
	mux.HandleFunc("PATCH /api/v1/properties/{id}", h.Properties.Update)
	mux.HandleFunc("POST /api/v1/properties/{id}/deactivate", h.Properties.Deactivate)
	mux.HandleFunc("POST /api/v1/properties/{id}/templates/{templateID}", h.Properties.AssignTemplate)
	mux.HandleFunc("DELETE /api/v1/properties/{id}/templates/{templateID}", h.Properties.UnassignTemplate)

	mux.HandleFunc("GET /api/v1/checklists", h.Checklists.List)
	mux.HandleFunc("GET /api/v1/checklists/{id}", h.Checklists.Get)
	mux.HandleFunc("POST /api/v1/checklists/{id}/assign", h.Checklists.Assign)
	mux.HandleFunc("POST /api/v1/checklists/{id}/status", h.Checklists.SetStatus)
	mux.HandleFunc("POST /api/v1/checklists/{id}/items/{itemID}/complete", h.Checklists.CompleteItem)
	mux.HandleFunc("POST /api/v1/checklists/{id}/items/{itemID}/uncomplete", h.Checklists.UncompleteItem)
	mux.HandleFunc("POST /api/v1/checklists/{id}/items/{itemID}/approve", h.Checklists.ApproveItem)
	mux.HandleFunc("POST /api/v1/checklists/{id}/items/{itemID}/reject", h.Checklists.RejectItem)
	mux.HandleFunc("GET /api/v1/checklists/{id}/history", h.Checklists.History)

	return mux
}

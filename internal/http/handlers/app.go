package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/workflow"
)

// App bundles the handler dependencies: the dispatch service, the record
// store for read surfaces, and the poller registry that keeps at most one
// poll loop alive per generation.
type App struct {
	Workflows *workflow.Service
	Records   domain.GenerationRepository
	Logger    infra.Logger
	Poll      workflow.PollOptions

	pollers sync.Map
}

func NewApp(workflows *workflow.Service, records domain.GenerationRepository, logger infra.Logger, poll workflow.PollOptions) *App {
	return &App{Workflows: workflows, Records: records, Logger: logger, Poll: poll}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

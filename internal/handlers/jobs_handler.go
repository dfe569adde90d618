package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleetboard/internal/jobs"
)

// JobsHandler exposes each scheduled task as a manual trigger so operators
// can re-run one out of band without waiting for its timer.
type JobsHandler struct {
	runner *jobs.Runner
	tasks  map[string]func(context.Context) error
}

func NewJobsHandler(runner *jobs.Runner) *JobsHandler {
	return &JobsHandler{
		runner: runner,
		tasks: map[string]func(context.Context) error{
			"expire-campaigns":   runner.ExpireCampaigns,
			"generate-playlists": runner.GeneratePlaylists,
			"truck-status-sweep": runner.SweepTruckStatus,
			"cleanup-audit-logs": runner.CleanupAuditLogs,
			"cleanup-playlists":  runner.CleanupPlaylists,
		},
	}
}

// RunJob handles POST /api/v1/jobs/{name}/run
func (h *JobsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	task, ok := h.tasks[name]
	if !ok {
		writeJSONErrorResponse(w, http.StatusNotFound, "unknown_job", "No such job: "+name)
		return
	}

	if err := task(r.Context()); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "job_failed", err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "job "+name+" completed")
}

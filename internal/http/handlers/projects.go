package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voxresumo/internal/domain"
)

// ProjectsList returns the session's project history, newest first.
func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	list, err := a.Projects.List(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list projects failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load projects")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": list})
}

// ProjectsGet returns one project by id.
func (a *App) ProjectsGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projectID := chi.URLParam(r, "project_id")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	project, err := a.Projects.Get(r.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		a.Logger.Error().Err(err).Msg("get project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load project")
		return
	}
	a.json(w, http.StatusOK, project)
}

// ProjectsDelete removes one project from the history. The usage it
// consumed stays on the ledger.
func (a *App) ProjectsDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projectID := chi.URLParam(r, "project_id")
	if projectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "project_id required")
		return
	}
	if err := a.Projects.Delete(r.Context(), userID, projectID); err != nil {
		a.Logger.Error().Err(err).Msg("delete project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete project")
		return
	}
	a.Audit.Action(r.Context(), userID, "Project deleted", map[string]any{"project_id": projectID})
	w.WriteHeader(http.StatusNoContent)
}

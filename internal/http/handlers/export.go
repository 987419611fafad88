package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"voxresumo/internal/domain"
	"voxresumo/pkg/zip"
)

// ProjectsExport bundles a completed project's results into a zip download:
// the transcript as plain text plus the summary as markdown.
func (a *App) ProjectsExport(w http.ResponseWriter, r *http.Request) {
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
	if project.Status != domain.ProjectStatusCompleted || project.Data == nil {
		a.error(w, http.StatusConflict, "not_ready", "project has no results to export")
		return
	}

	archive, err := zip.Archive([]zip.File{
		{Name: "transcript.txt", Data: []byte(renderTranscript(project.Data))},
		{Name: "summary.md", Data: []byte(renderSummary(project))},
	}, project.CreatedAt)
	if err != nil {
		a.Logger.Error().Err(err).Msg("build export archive failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build export")
		return
	}

	a.Audit.Action(r.Context(), userID, "Project exported", map[string]any{"project_id": project.ID})
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(project)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func renderTranscript(t *domain.Transcription) string {
	var b strings.Builder
	for _, seg := range t.Transcript {
		if seg.Timestamp != "" {
			b.WriteString("[" + seg.Timestamp + "] ")
		}
		if seg.Speaker != "" {
			b.WriteString(seg.Speaker + ": ")
		}
		b.WriteString(seg.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func renderSummary(p *domain.Project) string {
	t := p.Data
	var b strings.Builder
	title := t.Title
	if title == "" {
		title = p.Name
	}
	b.WriteString("# " + title + "\n\n")
	if len(t.Topics) > 0 {
		b.WriteString("Topics: " + strings.Join(t.Topics, ", ") + "\n\n")
	}
	if t.SummaryShort != "" {
		b.WriteString(t.SummaryShort + "\n\n")
	}
	if t.SummaryDetailed != "" {
		b.WriteString(t.SummaryDetailed + "\n\n")
	}
	if len(t.KeyPoints) > 0 {
		b.WriteString("## Key points\n\n")
		for _, kp := range t.KeyPoints {
			b.WriteString("- " + kp + "\n")
		}
	}
	return b.String()
}

func exportFilename(p *domain.Project) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = p.ID
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if name == "" {
		name = p.ID
	}
	return name + ".zip"
}

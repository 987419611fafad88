package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"voxresumo/internal/domain"
	"voxresumo/internal/middleware"
	"voxresumo/internal/providers/transcribe"
)

type transcriptionResponse struct {
	Project          domain.Project `json:"project"`
	ConsumedSeconds  float64        `json:"consumed_seconds_today"`
	RemainingSeconds float64        `json:"remaining_seconds"`
}

type limitErrorResponse struct {
	Error limitErrorBody `json:"error"`
}

type limitErrorBody struct {
	Code                string  `json:"code"`
	Message             string  `json:"message"`
	FileDurationSeconds float64 `json:"file_duration_seconds"`
	PerFileCapSeconds   float64 `json:"per_file_cap_seconds"`
	PerDayCapSeconds    float64 `json:"per_day_cap_seconds"`
	ConsumedSeconds     float64 `json:"consumed_seconds"`
}

// TranscriptionsCreate is the submission flow: size cap, admission check,
// provider call, usage recording, project persistence. Usage is charged
// only after the provider succeeds, and recording completes before the
// success response goes out.
func (a *App) TranscriptionsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		a.error(w, http.StatusRequestEntityTooLarge, "upload_too_large", "file exceeds the upload size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	duration, err := strconv.ParseFloat(r.FormValue("duration_seconds"), 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "duration_seconds must be a non-negative number")
		return
	}

	taskType := domain.TaskType(r.FormValue("type"))
	if taskType == "" {
		taskType = domain.TaskTypeOther
	}
	if !taskType.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported task type")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	plan, err := a.Identity.Plan(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("resolve plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to resolve plan")
		return
	}

	decision, err := a.Ledger.Check(r.Context(), userID, plan, duration)
	if err != nil {
		// The admission result is unknown; block rather than let the
		// submission through.
		a.Logger.Error().Err(err).Msg("admission check failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to evaluate usage limits")
		return
	}
	if !decision.OK {
		a.Audit.Action(r.Context(), userID, "Processing blocked", map[string]any{
			"reason":        string(decision.Reason),
			"file_name":     header.Filename,
			"file_duration": duration,
			"plan":          string(plan),
		})
		locale := middleware.LocaleFromContext(r.Context())
		a.json(w, http.StatusUnprocessableEntity, limitErrorResponse{Error: limitErrorBody{
			Code:                string(decision.Reason),
			Message:             limitMessage(locale, plan, decision),
			FileDurationSeconds: decision.FileDurationSeconds,
			PerFileCapSeconds:   decision.PerFileCapSeconds,
			PerDayCapSeconds:    decision.PerDayCapSeconds,
			ConsumedSeconds:     decision.ConsumedSeconds,
		}})
		return
	}

	media, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/mp3"
	}

	project := domain.Project{
		ID:               uuid.NewString(),
		Name:             name,
		Type:             taskType,
		Status:           domain.ProjectStatusProcessing,
		OriginalFileName: header.Filename,
		DurationSeconds:  duration,
		CreatedAt:        time.Now(),
	}

	a.Audit.Action(r.Context(), userID, "File submitted for processing", map[string]any{
		"file_name":     header.Filename,
		"file_duration": duration,
		"mime_type":     mimeType,
		"provider":      a.ProviderName,
	})

	result, err := a.Provider.Transcribe(r.Context(), transcribe.Request{
		Media:    media,
		MimeType: mimeType,
		Filename: header.Filename,
	})
	if err != nil {
		// No quota is charged for a failed attempt, but the failed project
		// stays visible in the history.
		project.Status = domain.ProjectStatusError
		if saveErr := a.Projects.Save(r.Context(), userID, project); saveErr != nil {
			a.Logger.Error().Err(saveErr).Msg("save failed project")
		}
		a.Audit.Action(r.Context(), userID, "Processing failed", map[string]any{
			"file_name": header.Filename,
			"error":     err.Error(),
		})
		if errors.Is(err, domain.ErrInvalidUpload) {
			a.error(w, http.StatusBadRequest, "bad_request", "file could not be processed")
			return
		}
		a.error(w, http.StatusBadGateway, "provider_failure", "transcription provider failed")
		return
	}

	entry := domain.UsageEntry{
		ProjectID:       project.ID,
		TaskType:        taskType,
		DurationSeconds: duration,
		Timestamp:       time.Now(),
	}
	if err := a.Ledger.Record(r.Context(), userID, entry); err != nil {
		a.Logger.Error().Err(err).Msg("record usage failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record usage")
		return
	}

	project.Status = domain.ProjectStatusCompleted
	project.Data = result
	if result.Title != "" && r.FormValue("name") == "" {
		project.Name = result.Title
	}
	if err := a.Projects.Save(r.Context(), userID, project); err != nil {
		a.Logger.Error().Err(err).Msg("save project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save project")
		return
	}

	a.Audit.Action(r.Context(), userID, "Processing completed", map[string]any{
		"project_id":    project.ID,
		"file_duration": duration,
	})

	consumed := decision.ConsumedSeconds + duration
	remaining := decision.PerDayCapSeconds - consumed
	if remaining < 0 {
		remaining = 0
	}
	a.json(w, http.StatusCreated, transcriptionResponse{
		Project:          project,
		ConsumedSeconds:  consumed,
		RemainingSeconds: remaining,
	})
}

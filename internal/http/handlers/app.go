package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"voxresumo/internal/audit"
	"voxresumo/internal/identity"
	"voxresumo/internal/middleware"
	"voxresumo/internal/projects"
	"voxresumo/internal/providers/transcribe"
	"voxresumo/internal/quota"
)

// App bundles the collaborators the HTTP handlers need.
type App struct {
	Logger         zerolog.Logger
	Identity       *identity.Provider
	Ledger         *quota.Ledger
	Projects       *projects.Repository
	Provider       transcribe.Provider
	ProviderName   string
	Audit          *audit.Logger
	SessionSecret  string
	MaxUploadBytes int64
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

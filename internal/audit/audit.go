// Package audit emits structured user-action events. The original client
// sent these to a logging endpoint and dropped failures on the floor; here
// they go to the service log, optionally enriched with the caller's
// country.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"voxresumo/internal/middleware"
)

// Logger records user actions. The zero value is unusable; build one with
// NewLogger.
type Logger struct {
	log zerolog.Logger
}

func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "audit").Logger()}
}

// Action logs one user action with optional detail fields. Country and
// request id are taken from the context when middleware resolved them.
// Audit logging never fails the surrounding operation.
func (l *Logger) Action(ctx context.Context, userID, action string, fields map[string]any) {
	if l == nil {
		return
	}
	event := l.log.Info().
		Str("user_id", userID).
		Str("action", action)
	if rid := middleware.RequestIDFromContext(ctx); rid != "" {
		event = event.Str("request_id", rid)
	}
	if country := middleware.CountryFromContext(ctx); country != "" {
		event = event.Str("country", country)
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("user action")
}

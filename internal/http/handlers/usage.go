package handlers

import (
	"net/http"

	"voxresumo/internal/quota"
)

type usageResponse struct {
	Plan                 string  `json:"plan"`
	PerFileCapSeconds    float64 `json:"per_file_cap_seconds"`
	PerDayCapSeconds     float64 `json:"per_day_cap_seconds"`
	ConsumedSecondsToday float64 `json:"consumed_seconds_today"`
	RemainingSeconds     float64 `json:"remaining_seconds"`
}

// UsageToday reports the session's consumption against its plan caps.
func (a *App) UsageToday(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	plan, err := a.Identity.Plan(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("resolve plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to resolve plan")
		return
	}
	consumed, err := a.Ledger.ConsumedSecondsToday(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("read ledger failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read usage")
		return
	}
	limits := quota.LimitsFor(plan)
	remaining := limits.PerDaySeconds - consumed
	if remaining < 0 {
		remaining = 0
	}
	a.json(w, http.StatusOK, usageResponse{
		Plan:                 string(plan),
		PerFileCapSeconds:    limits.PerFileSeconds,
		PerDayCapSeconds:     limits.PerDaySeconds,
		ConsumedSecondsToday: consumed,
		RemainingSeconds:     remaining,
	})
}

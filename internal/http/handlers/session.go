package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"voxresumo/internal/domain"
	"voxresumo/internal/middleware"
	"voxresumo/internal/quota"
)

type sessionRequest struct {
	UserID string `json:"user_id"`
}

type sessionResponse struct {
	Token string         `json:"token"`
	User  userProfileDTO `json:"user"`
}

type userProfileDTO struct {
	ID                   string  `json:"id"`
	Plan                 string  `json:"plan"`
	PerFileCapSeconds    float64 `json:"per_file_cap_seconds"`
	PerDayCapSeconds     float64 `json:"per_day_cap_seconds"`
	ConsumedSecondsToday float64 `json:"consumed_seconds_today"`
}

type loginRequest struct {
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
}

// SessionCreate mints (or confirms) an anonymous identity and returns a
// signed session token for it.
func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	userID, created, err := a.Identity.GetOrCreate(r.Context(), req.UserID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("mint identity failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	if created {
		a.Audit.Action(r.Context(), userID, "Anonymous identity created", nil)
	}
	a.respondWithSession(w, r, userID)
}

// SessionLogin assigns a plan to the session's identity. It stands in for
// the original's signup/login pages: there is no credential check, only a
// plan choice, and the enforcement stays advisory.
func (a *App) SessionLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	userID, _, err := a.Identity.GetOrCreate(r.Context(), req.UserID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("mint identity failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	plan := domain.UserPlan(req.Plan)
	if req.Plan == "" {
		plan = domain.UserPlanFree
	}
	if err := a.Identity.SetPlan(r.Context(), userID, plan); err != nil {
		if errors.Is(err, domain.ErrUnsupportedPlan) {
			a.error(w, http.StatusBadRequest, "bad_request", "unsupported plan")
			return
		}
		a.Logger.Error().Err(err).Msg("set plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store plan")
		return
	}
	a.Audit.Action(r.Context(), userID, "User logged in", map[string]any{"plan": string(plan)})
	a.respondWithSession(w, r, userID)
}

// SessionLogout clears the identity and plan. Daily usage keys survive, so
// logging out does not reset consumption.
func (a *App) SessionLogout(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := a.Identity.ClearSession(r.Context(), userID); err != nil {
		a.Logger.Error().Err(err).Msg("clear session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to clear session")
		return
	}
	a.Audit.Action(r.Context(), userID, "User logged out", nil)
	w.WriteHeader(http.StatusNoContent)
}

// PlanUpdate changes the stored plan for the current session.
func (a *App) PlanUpdate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Identity.SetPlan(r.Context(), userID, domain.UserPlan(req.Plan)); err != nil {
		if errors.Is(err, domain.ErrUnsupportedPlan) {
			a.error(w, http.StatusBadRequest, "bad_request", "unsupported plan")
			return
		}
		a.Logger.Error().Err(err).Msg("set plan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store plan")
		return
	}
	a.Audit.Action(r.Context(), userID, "Plan changed", map[string]any{"plan": req.Plan})
	a.respondWithSession(w, r, userID)
}

// Me reports the session's identity, plan, caps and today's consumption.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	profile, err := a.profileFor(r, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, profile)
}

func (a *App) respondWithSession(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := a.profileFor(r, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	token, err := middleware.SignSession(a.SessionSecret, middleware.SessionClaims{
		Sub:      userID,
		Plan:     profile.Plan,
		Locale:   middleware.LocaleFromContext(r.Context()),
		Exp:      time.Now().Add(30 * 24 * time.Hour).Unix(),
		Issuer:   middleware.SessionIssuer,
		Audience: middleware.SessionAudience,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, sessionResponse{Token: token, User: profile})
}

func (a *App) profileFor(r *http.Request, userID string) (userProfileDTO, error) {
	plan, err := a.Identity.Plan(r.Context(), userID)
	if err != nil {
		return userProfileDTO{}, err
	}
	consumed, err := a.Ledger.ConsumedSecondsToday(r.Context(), userID)
	if err != nil {
		return userProfileDTO{}, err
	}
	limits := quota.LimitsFor(plan)
	return userProfileDTO{
		ID:                   userID,
		Plan:                 string(plan),
		PerFileCapSeconds:    limits.PerFileSeconds,
		PerDayCapSeconds:     limits.PerDaySeconds,
		ConsumedSecondsToday: consumed,
	}, nil
}

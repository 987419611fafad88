// Package quota implements plan limit policy, the per-day usage ledger and
// admission control for transcription submissions.
package quota

import "voxresumo/internal/domain"

// Limits are the two caps a plan carries, in seconds of media duration.
type Limits struct {
	PerFileSeconds float64
	PerDaySeconds  float64
}

var planLimits = map[domain.UserPlan]Limits{
	// Unauthenticated users get exactly the free-tier caps. The tiers are
	// intentionally identical, not collapsed.
	domain.UserPlanUnauthenticated: {PerFileSeconds: 180, PerDaySeconds: 600},
	domain.UserPlanFree:            {PerFileSeconds: 180, PerDaySeconds: 600},
	domain.UserPlanPro:             {PerFileSeconds: 1200, PerDaySeconds: 3600},
}

// LimitsFor returns the caps for a plan. It is total: unknown plans fall
// back to the free-tier caps rather than failing.
func LimitsFor(plan domain.UserPlan) Limits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits[domain.UserPlanFree]
}

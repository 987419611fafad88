package quota

import (
	"context"

	"voxresumo/internal/domain"
)

// Check decides whether a submission of fileDurationSeconds may proceed
// under the user's plan, before any provider work happens.
//
// The per-file cap is checked first and without touching the ledger: an
// oversized file is rejected even with zero consumption, and the ledger
// read is skipped entirely. Both comparisons are strict, so a file landing
// exactly on a cap is admitted.
//
// A rejection is a decision, not an error; the error return is reserved
// for ledger read failures, after which the caller must not assume the
// submission was admissible.
func (l *Ledger) Check(ctx context.Context, userID string, plan domain.UserPlan, fileDurationSeconds float64) (domain.AdmissionDecision, error) {
	limits := LimitsFor(plan)
	decision := domain.AdmissionDecision{
		FileDurationSeconds: fileDurationSeconds,
		PerFileCapSeconds:   limits.PerFileSeconds,
		PerDayCapSeconds:    limits.PerDaySeconds,
	}

	if fileDurationSeconds > limits.PerFileSeconds {
		decision.Reason = domain.ReasonSingleFileLimitExceeded
		return decision, nil
	}

	consumed, err := l.ConsumedSecondsToday(ctx, userID)
	if err != nil {
		return domain.AdmissionDecision{}, err
	}
	decision.ConsumedSeconds = consumed

	if consumed+fileDurationSeconds > limits.PerDaySeconds {
		decision.Reason = domain.ReasonDailyLimitExceeded
		return decision, nil
	}

	decision.OK = true
	decision.Reason = domain.ReasonOK
	return decision, nil
}

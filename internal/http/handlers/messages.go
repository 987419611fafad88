package handlers

import (
	"fmt"
	"math"

	"voxresumo/internal/domain"
)

// formatDuration renders seconds as M:SS for user-facing messages.
func formatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// limitMessage builds the localized explanation for a rejected submission.
// The Portuguese wording follows the original product copy.
func limitMessage(locale string, plan domain.UserPlan, dec domain.AdmissionDecision) string {
	pt := locale != "en"
	switch dec.Reason {
	case domain.ReasonSingleFileLimitExceeded:
		if pt {
			if plan == domain.UserPlanPro {
				return fmt.Sprintf("Seu arquivo tem %s, excedendo o limite de %s para um único arquivo no plano Pro.",
					formatDuration(dec.FileDurationSeconds), formatDuration(dec.PerFileCapSeconds))
			}
			return fmt.Sprintf("Seu arquivo tem %s, excedendo o limite de %s para um único arquivo no plano gratuito. Considere fazer upgrade para processar arquivos maiores.",
				formatDuration(dec.FileDurationSeconds), formatDuration(dec.PerFileCapSeconds))
		}
		return fmt.Sprintf("Your file is %s, exceeding the %s single-file limit for your plan.",
			formatDuration(dec.FileDurationSeconds), formatDuration(dec.PerFileCapSeconds))
	case domain.ReasonDailyLimitExceeded:
		if pt {
			return fmt.Sprintf("Seu arquivo tem %s. Com ele, você excederia o limite diário de %s (%s já consumidos). Faça upgrade ou tente novamente amanhã.",
				formatDuration(dec.FileDurationSeconds), formatDuration(dec.PerDayCapSeconds), formatDuration(dec.ConsumedSeconds))
		}
		return fmt.Sprintf("Your file is %s. Processing it would exceed the daily limit of %s (%s already used). Upgrade or try again tomorrow.",
			formatDuration(dec.FileDurationSeconds), formatDuration(dec.PerDayCapSeconds), formatDuration(dec.ConsumedSeconds))
	}
	return ""
}

package domain

import "time"

// UsageEntry is one completed submission charged against the daily quota.
// Entries are appended to a per-day ledger and never mutated or deleted.
type UsageEntry struct {
	ProjectID       string    `json:"project_id"`
	TaskType        TaskType  `json:"task_type"`
	DurationSeconds float64   `json:"duration_seconds"`
	Timestamp       time.Time `json:"timestamp"`
}

// DecisionReason explains an admission verdict.
type DecisionReason string

const (
	ReasonOK                      DecisionReason = "OK"
	ReasonSingleFileLimitExceeded DecisionReason = "SINGLE_FILE_LIMIT_EXCEEDED"
	ReasonDailyLimitExceeded      DecisionReason = "DAILY_LIMIT_EXCEEDED"
)

// AdmissionDecision is the outcome of checking a candidate submission
// against the caller's plan limits. It carries the figures the caller needs
// to explain a rejection to the user.
type AdmissionDecision struct {
	OK                  bool           `json:"ok"`
	Reason              DecisionReason `json:"reason"`
	FileDurationSeconds float64        `json:"file_duration_seconds"`
	PerFileCapSeconds   float64        `json:"per_file_cap_seconds"`
	PerDayCapSeconds    float64        `json:"per_day_cap_seconds"`
	ConsumedSeconds     float64        `json:"consumed_seconds"`
}

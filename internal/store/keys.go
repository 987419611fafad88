package store

import "fmt"

// Key builders. The shapes follow the original client's storage layout,
// widened with the user id where the browser implicitly had one keyspace
// per visitor.

// UserIDKey marks a minted identity. Its presence distinguishes a known
// user (plan defaults to free) from an unauthenticated one.
func UserIDKey(userID string) string {
	return fmt.Sprintf("user_id_%s", userID)
}

// UserPlanKey holds the stored plan for a user, absent until login/signup.
func UserPlanKey(userID string) string {
	return fmt.Sprintf("user_plan_%s", userID)
}

// ProjectsKey holds the user's project history, most recent first.
func ProjectsKey(userID string) string {
	return fmt.Sprintf("projects_%s", userID)
}

// DailyUsageKey buckets usage entries by user and local calendar day
// (YYYY-MM-DD). Old days are never rewritten or removed.
func DailyUsageKey(userID, day string) string {
	return fmt.Sprintf("daily_usage_%s_%s", userID, day)
}

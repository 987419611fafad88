package domain

// UserPlan enumerates service tiers.
type UserPlan string

const (
	UserPlanUnauthenticated UserPlan = "unauthenticated"
	UserPlanFree            UserPlan = "free"
	UserPlanPro             UserPlan = "pro"
)

// IsFree reports whether the plan carries free-tier limits. Unauthenticated
// users are limited exactly like free users.
func (p UserPlan) IsFree() bool {
	return p == UserPlanFree || p == UserPlanUnauthenticated
}

// Valid reports whether p is one of the known tiers.
func (p UserPlan) Valid() bool {
	switch p {
	case UserPlanUnauthenticated, UserPlanFree, UserPlanPro:
		return true
	}
	return false
}

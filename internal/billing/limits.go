package billing

// Tier is a subscription level
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// LimitDecision is the outcome of the free tier admission check.
// Remaining is only meaningful when Unlimited is false.
type LimitDecision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

// EvaluateInvoiceLimit decides whether another invoice may be created.
// Unknown tiers are metered like the free tier.
func EvaluateInvoiceLimit(tier Tier, currentCount, limit int) LimitDecision {
	if tier == TierPro {
		return LimitDecision{Allowed: true, Unlimited: true}
	}
	if limit < 0 {
		limit = 0
	}
	remaining := limit - currentCount
	if remaining < 0 {
		remaining = 0
	}
	return LimitDecision{
		Allowed:   currentCount < limit,
		Remaining: remaining,
	}
}

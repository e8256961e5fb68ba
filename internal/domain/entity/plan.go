package entity

// PlanTier is the subscription level governing usage allowances.
type PlanTier string

const (
	PlanTierFree    PlanTier = "free"
	PlanTierStarter PlanTier = "starter"
	PlanTierPremium PlanTier = "premium"
)

// Valid reports whether t is a known tier.
func (t PlanTier) Valid() bool {
	switch t {
	case PlanTierFree, PlanTierStarter, PlanTierPremium:
		return true
	}
	return false
}

// PlanStatus mirrors the payment provider's subscription status.
type PlanStatus string

const (
	PlanStatusNone     PlanStatus = "none"
	PlanStatusActive   PlanStatus = "active"
	PlanStatusPastDue  PlanStatus = "past_due"
	PlanStatusCanceled PlanStatus = "canceled"
)

// Valid reports whether s is a known status.
func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusNone, PlanStatusActive, PlanStatusPastDue, PlanStatusCanceled:
		return true
	}
	return false
}

// allowedTransitions lists the plan status changes the provider is expected to report.
var allowedTransitions = map[PlanStatus][]PlanStatus{
	PlanStatusNone:     {PlanStatusActive},
	PlanStatusActive:   {PlanStatusPastDue, PlanStatusCanceled},
	PlanStatusPastDue:  {PlanStatusCanceled},
	PlanStatusCanceled: {PlanStatusActive},
}

// IsExpectedTransition reports whether moving from one status to another is
// part of the normal subscription lifecycle. Staying in the same status is
// not a transition and is always expected.
func IsExpectedTransition(from, to PlanStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PlanStatusFromProvider maps a Stripe subscription status onto a plan status.
// The second return value is false for statuses that carry no plan meaning,
// such as incomplete subscriptions still waiting for their first payment.
func PlanStatusFromProvider(status string) (PlanStatus, bool) {
	switch status {
	case "active", "trialing":
		return PlanStatusActive, true
	case "past_due", "unpaid", "paused":
		return PlanStatusPastDue, true
	case "canceled", "incomplete_expired":
		return PlanStatusCanceled, true
	}
	return "", false
}

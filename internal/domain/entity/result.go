package entity

import (
	"github.com/google/uuid"
)

// Outcome describes what the reconciliation engine did with an event.
type Outcome string

const (
	OutcomeApplied               Outcome = "applied"
	OutcomeDuplicateSkipped      Outcome = "duplicate_skipped"
	OutcomeUnrecognizedEventKind Outcome = "unrecognized_event_kind"
	OutcomeUnresolvedUser        Outcome = "unresolved_user"
)

// ProcessingResult is returned for every event the engine handled without error.
type ProcessingResult struct {
	EventID string    `json:"event_id"`
	Kind    EventKind `json:"kind"`
	Outcome Outcome   `json:"outcome"`
	UserID  uuid.UUID `json:"user_id,omitempty"`

	// CreditsGranted is the sum of the ledger deltas the event inserted.
	CreditsGranted int64 `json:"credits_granted"`
	LedgerEntries  int   `json:"ledger_entries"`

	PreviousTier   PlanTier   `json:"previous_tier,omitempty"`
	PreviousStatus PlanStatus `json:"previous_status,omitempty"`
	Tier           PlanTier   `json:"tier,omitempty"`
	Status         PlanStatus `json:"status,omitempty"`

	// UnexpectedTransition is set when the provider reported a status change
	// outside the normal lifecycle. The change is applied regardless.
	UnexpectedTransition bool `json:"unexpected_transition,omitempty"`
	// Stale is set when a lifecycle event older than the last applied one was
	// ignored for plan state.
	Stale bool `json:"stale,omitempty"`
}

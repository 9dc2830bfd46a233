// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/Lugier/M-A-CRM-sub001/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Deal Domain Events
// =============================================================================

// DealStageChanged is published after a deal stage transition has been
// committed (deal row and history entry written as one unit). Handlers run
// best-effort: the task automation trigger subscribes here, and its failure
// never rolls the transition back.
type DealStageChanged struct {
	BaseEvent
	DealID   uuid.UUID `json:"dealId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
	ActorID  uuid.UUID `json:"actorId"`
}

func (e DealStageChanged) EventName() string { return "deals.stage.changed" }

// DealStatusChanged is published when the deal lifecycle status flips
// (active, on hold, closed-won, closed-lost).
type DealStatusChanged struct {
	BaseEvent
	DealID    uuid.UUID `json:"dealId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e DealStatusChanged) EventName() string { return "deals.status.changed" }

// DealDeleted is published after a deal and all its child rows have been
// removed.
type DealDeleted struct {
	BaseEvent
	DealID uuid.UUID `json:"dealId"`
}

func (e DealDeleted) EventName() string { return "deals.deleted" }

// =============================================================================
// Investor Funnel Domain Events
// =============================================================================

// InvestorStatusChanged is published when an investor relation moves through
// the funnel (longlist, NDA, IM, bid, dropped).
type InvestorStatusChanged struct {
	BaseEvent
	DealID         uuid.UUID `json:"dealId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	OldStatus      string    `json:"oldStatus"`
	NewStatus      string    `json:"newStatus"`
}

func (e InvestorStatusChanged) EventName() string { return "investors.status.changed" }

// OutreachLogged is published when an outreach email to an investor contact
// has been recorded. The log is committed before the send is attempted, so
// subscribers may observe outreach whose delivery later failed.
type OutreachLogged struct {
	BaseEvent
	DealID         uuid.UUID `json:"dealId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Subject        string    `json:"subject"`
}

func (e OutreachLogged) EventName() string { return "investors.outreach.logged" }

// =============================================================================
// Activity Domain Events
// =============================================================================

// ActivityLogged is published when a free-text activity or comment is
// persisted. Mention fan-out happens inline in the activities service; this
// event exists for listeners that only need to observe the ledger.
type ActivityLogged struct {
	BaseEvent
	ActivityID uuid.UUID `json:"activityId"`
	DealID     uuid.UUID `json:"dealId"`
	ActorID    uuid.UUID `json:"actorId"`
	Content    string    `json:"content"`
}

func (e ActivityLogged) EventName() string { return "activities.logged" }

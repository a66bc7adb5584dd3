// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/events"

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
// Scoring Domain Events
// =============================================================================

// LeadScored is published after a lead's motivation score is recomputed and
// persisted, whether on demand or as part of a batch run.
type LeadScored struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	MotivationScore int       `json:"motivationScore"`
	Disqualified    bool      `json:"disqualified"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// =============================================================================
// Pipeline Domain Events
// =============================================================================

// PipelineStageChanged is published when a lead moves between pipeline
// stages. Trigger names the mechanism ("scoring", "call_outcome", "reply").
type PipelineStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
	Trigger  string    `json:"trigger"`
}

func (e PipelineStageChanged) EventName() string { return "leads.pipeline.stage_changed" }

// OwnerOptedOut is published when an owner is marked do-not-contact, either
// from an SMS reply classified as dead or an explicit request.
type OwnerOptedOut struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Source string    `json:"source"`
}

func (e OwnerOptedOut) EventName() string { return "leads.owner.opted_out" }

// FollowupDue is published when a scheduled follow-up for a lead comes due.
type FollowupDue struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e FollowupDue) EventName() string { return "leads.followup.due" }

// =============================================================================
// Queue Domain Events
// =============================================================================

// CallerSheetGenerated is published when a caller sheet is produced for a
// market, including the empty case with its diagnostic reason.
type CallerSheetGenerated struct {
	BaseEvent
	Market            string `json:"market"`
	LeadCount         int    `json:"leadCount"`
	UnavailableReason string `json:"unavailableReason,omitempty"`
}

func (e CallerSheetGenerated) EventName() string { return "leads.caller_sheet.generated" }

// Package transport defines the request and response DTOs for the leads API.
package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RecordEventRequest records a caller disposition or a classified reply
// against a lead. Exactly one of Outcome or Classification must be set,
// matching EventType.
type RecordEventRequest struct {
	EventType      string     `json:"event_type" validate:"required,oneof=call_outcome reply"`
	Outcome        string     `json:"outcome,omitempty" validate:"required_if=EventType call_outcome,omitempty,oneof=not_interested interested call_back no_answer voicemail wrong_number"`
	Classification string     `json:"classification,omitempty" validate:"required_if=EventType reply,omitempty,oneof=yes dead"`
	FollowupAt     *time.Time `json:"followup_at,omitempty"`
}

// UpdatePhoneRequest replaces the owner's phone after a skiptrace correction.
type UpdatePhoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// ScoringRunRequest triggers a batch scoring pass.
type ScoringRunRequest struct {
	MinScore *int `json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// LeadResponse is the lead detail view.
type LeadResponse struct {
	ID              uuid.UUID       `json:"id"`
	ParcelID        uuid.UUID       `json:"parcel_id"`
	MotivationScore int             `json:"motivation_score"`
	ScoreDetails    json.RawMessage `json:"score_details,omitempty"`
	PipelineStage   string          `json:"pipeline_stage"`
	Status          string          `json:"status"`
	FollowupCount   int             `json:"followup_count"`
	NextFollowupAt  *time.Time      `json:"next_followup_at,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

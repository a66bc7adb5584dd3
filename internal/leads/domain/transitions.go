package domain

import "fmt"

// CallOutcome is the disposition a caller records after an outbound attempt.
type CallOutcome string

const (
	OutcomeNotInterested CallOutcome = "not_interested"
	OutcomeInterested    CallOutcome = "interested"
	OutcomeCallBack      CallOutcome = "call_back"
	OutcomeNoAnswer      CallOutcome = "no_answer"
	OutcomeVoicemail     CallOutcome = "voicemail"
	OutcomeWrongNumber   CallOutcome = "wrong_number"
)

// ReplyClassification is the classified intent of an inbound reply.
type ReplyClassification string

const (
	ReplyYes  ReplyClassification = "yes"
	ReplyDead ReplyClassification = "dead"
)

// Lead statuses set by transitions. Status is a free-text secondary field;
// these are the values this engine writes.
const (
	StatusRejected   = "rejected"
	StatusInterested = "interested"
	StatusCallback   = "callback"
	StatusOptedOut   = "opted_out"
	StatusHot        = "hot"
)

// Effect describes what a transition does to a lead. NewStage of
// StageUnchanged keeps the current stage. OverridesManual marks effects that
// apply even when the lead sits in a manual stage.
type Effect struct {
	NewStage          string
	Status            string
	IncrementFollowup bool
	ClearPhone        bool
	SetOptOut         bool
	OverridesManual   bool
}

// callOutcomeEffects is the single transition table for caller dispositions.
// Call outcomes are themselves manual actions, so every entry applies
// regardless of the lead's current stage.
var callOutcomeEffects = map[CallOutcome]Effect{
	OutcomeNotInterested: {NewStage: StageReview, Status: StatusRejected, OverridesManual: true},
	OutcomeInterested:    {NewStage: StageOffer, Status: StatusInterested, OverridesManual: true},
	OutcomeCallBack:      {NewStage: StageUnchanged, Status: StatusCallback, OverridesManual: true},
	OutcomeNoAnswer:      {NewStage: StageUnchanged, IncrementFollowup: true, OverridesManual: true},
	OutcomeVoicemail:     {NewStage: StageUnchanged, IncrementFollowup: true, OverridesManual: true},
	OutcomeWrongNumber:   {NewStage: StageUnchanged, ClearPhone: true, OverridesManual: true},
}

// replyEffects is the transition table for classified inbound replies.
// A dead reply (STOP/unsubscribe) must be honored from any stage, including
// terminal ones. An explicit yes outranks any prior manual placement.
var replyEffects = map[ReplyClassification]Effect{
	ReplyDead: {NewStage: StageUnchanged, Status: StatusOptedOut, SetOptOut: true, OverridesManual: true},
	ReplyYes:  {NewStage: StageHot, Status: StatusHot, OverridesManual: true},
}

// EffectForCallOutcome resolves the transition effect for a call outcome.
func EffectForCallOutcome(outcome CallOutcome) (Effect, error) {
	effect, ok := callOutcomeEffects[outcome]
	if !ok {
		return Effect{}, fmt.Errorf("unknown call outcome %q", outcome)
	}
	return effect, nil
}

// EffectForReply resolves the transition effect for a reply classification.
func EffectForReply(class ReplyClassification) (Effect, error) {
	effect, ok := replyEffects[class]
	if !ok {
		return Effect{}, fmt.Errorf("unknown reply classification %q", class)
	}
	return effect, nil
}

// Resolve materializes an effect against a lead's current stage, applying the
// manual-stage precedence rule: effects that do not override manual progress
// leave a manual-stage lead where it is.
func (e Effect) Resolve(currentStage string) string {
	next := e.NewStage
	if next == StageUnchanged {
		return currentStage
	}
	if IsManualStage(currentStage) && !e.OverridesManual {
		return currentStage
	}
	return next
}

// StageForScore derives the pipeline stage an automated scoring pass would
// place a lead into. It does NOT consult the current stage; callers must gate
// on IsManualStage via NextStageAfterScoring.
func StageForScore(score Score, contactThreshold, hotThreshold int) string {
	switch {
	case score.Disqualified:
		return StageIngested
	case score.MotivationScore >= hotThreshold:
		return StageHot
	case score.MotivationScore >= contactThreshold:
		return StageNew
	default:
		return StagePreScore
	}
}

// NextStageAfterScoring applies the core invariant: automated scoring may move
// a lead among automated stages, but a manually-set stage always wins.
func NextStageAfterScoring(currentStage string, score Score, contactThreshold, hotThreshold int) string {
	if IsManualStage(currentStage) {
		return currentStage
	}
	return StageForScore(score, contactThreshold, hotThreshold)
}

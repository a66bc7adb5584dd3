package domain

const (
	// StageUnchanged is a sentinel indicating that a transition effect
	// intentionally does not prescribe a pipeline stage. The caller must
	// substitute the lead's current stage.
	StageUnchanged = ""

	StageIngested  = "Ingested"
	StageEnriching = "Enriching"
	StagePreScore  = "Pre_Score"
	StageNew       = "New"
	StageContacted = "Contacted"
	StageReview    = "Review"
	StageOffer     = "Offer"
	StageContract  = "Contract"
	StageHot       = "Hot"
	StageRejected  = "Rejected"
)

var knownPipelineStages = map[string]struct{}{
	StageIngested:  {},
	StageEnriching: {},
	StagePreScore:  {},
	StageNew:       {},
	StageContacted: {},
	StageReview:    {},
	StageOffer:     {},
	StageContract:  {},
	StageHot:       {},
	StageRejected:  {},
}

// manualStages are stages a human moved the lead into. Automated re-scoring
// must never overwrite them.
var manualStages = map[string]struct{}{
	StageContacted: {},
	StageReview:    {},
	StageOffer:     {},
	StageContract:  {},
}

func IsKnownPipelineStage(stage string) bool {
	_, ok := knownPipelineStages[stage]
	return ok
}

// IsManualStage reports whether the stage represents human progress.
func IsManualStage(stage string) bool {
	_, ok := manualStages[stage]
	return ok
}

// Package domain defines the closed stage and status vocabularies for deals.
// Both are validated at the boundary; services never accept free-form values.
package domain

// Stage is the coarse pipeline phase of a deal. Transitions between stages
// are deliberately unrestricted: advisors jump backward and forward while a
// mandate is negotiated, so the state machine validates membership only.
type Stage string

const (
	StagePitch        Stage = "PITCH"
	StageKickoff      Stage = "KICKOFF"
	StagePreparation  Stage = "PREPARATION"
	StageMarketing    Stage = "MARKETING"
	StageDueDiligence Stage = "DUE_DILIGENCE"
	StageNegotiation  Stage = "NEGOTIATION"
	StageClosing      Stage = "CLOSING"
	StageArchived     Stage = "ARCHIVED"
)

// AllStages lists every stage in pipeline order.
var AllStages = []Stage{
	StagePitch,
	StageKickoff,
	StagePreparation,
	StageMarketing,
	StageDueDiligence,
	StageNegotiation,
	StageClosing,
	StageArchived,
}

var knownStages = map[Stage]struct{}{
	StagePitch:        {},
	StageKickoff:      {},
	StagePreparation:  {},
	StageMarketing:    {},
	StageDueDiligence: {},
	StageNegotiation:  {},
	StageClosing:      {},
	StageArchived:     {},
}

// IsKnownStage reports whether stage is part of the closed stage set.
func IsKnownStage(stage Stage) bool {
	_, ok := knownStages[stage]
	return ok
}

// InitialStage is assigned to every newly created deal.
const InitialStage = StagePitch

// Package domain defines the closed investor funnel vocabulary.
package domain

// RelationStatus tracks how far an investor organization has progressed in
// a deal's process. Advancement is monotonic by convention only; no
// adjacency is enforced, matching the deal stage machine. DROPPED is
// terminal by convention.
type RelationStatus string

const (
	StatusLonglist          RelationStatus = "LONGLIST"
	StatusShortlist         RelationStatus = "SHORTLIST"
	StatusContacted         RelationStatus = "CONTACTED"
	StatusNDASent           RelationStatus = "NDA_SENT"
	StatusNDASigned         RelationStatus = "NDA_SIGNED"
	StatusIMSent            RelationStatus = "IM_SENT"
	StatusProcessLetterSent RelationStatus = "PROCESS_LETTER_SENT"
	StatusBidReceived       RelationStatus = "BID_RECEIVED"
	StatusDropped           RelationStatus = "DROPPED"
)

var knownStatuses = map[RelationStatus]struct{}{
	StatusLonglist:          {},
	StatusShortlist:         {},
	StatusContacted:         {},
	StatusNDASent:           {},
	StatusNDASigned:         {},
	StatusIMSent:            {},
	StatusProcessLetterSent: {},
	StatusBidReceived:       {},
	StatusDropped:           {},
}

// IsKnownStatus reports whether status is part of the closed funnel set.
func IsKnownStatus(status RelationStatus) bool {
	_, ok := knownStatuses[status]
	return ok
}

// IsPreOutreach reports whether a relation has not yet entered the active
// process. Removal from a deal is conventionally limited to these statuses.
func IsPreOutreach(status RelationStatus) bool {
	return status == StatusLonglist || status == StatusShortlist
}

// MaxPriority bounds the relation priority field (0 = none, 3 = highest).
const MaxPriority = 3

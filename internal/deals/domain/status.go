package domain

// Status is the deal lifecycle flag, orthogonal to Stage. A deal is
// considered closed via status, never via a terminal stage value.
type Status string

const (
	StatusLead       Status = "LEAD"
	StatusActive     Status = "ACTIVE"
	StatusOnHold     Status = "ON_HOLD"
	StatusClosedWon  Status = "CLOSED_WON"
	StatusClosedLost Status = "CLOSED_LOST"
)

var knownStatuses = map[Status]struct{}{
	StatusLead:       {},
	StatusActive:     {},
	StatusOnHold:     {},
	StatusClosedWon:  {},
	StatusClosedLost: {},
}

// IsKnownStatus reports whether status is part of the closed status set.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// IsOpen reports whether a deal still counts toward the active pipeline.
// Stage and status are independent axes, so both must be checked: a deal
// parked in the archived stage is out of the pipeline even while its
// status is still LEAD or ACTIVE.
func IsOpen(status Status, stage Stage) bool {
	switch status {
	case StatusLead, StatusActive:
		return stage != StageArchived
	case StatusOnHold, StatusClosedWon, StatusClosedLost:
		return false
	default:
		return false
	}
}

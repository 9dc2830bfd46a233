// Package transport defines request DTOs for the activities HTTP API.
package transport

// LogActivityRequest records a timeline entry on a deal. Type is optional;
// when omitted the content classifier picks one.
type LogActivityRequest struct {
	Content        string  `json:"content" validate:"required,max=20000"`
	Type           string  `json:"type" validate:"omitempty,oneof=NOTE CALL EMAIL MEETING DECISION"`
	OrganizationID *string `json:"organizationId" validate:"omitempty,uuid"`
}

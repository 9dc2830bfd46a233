// Package transport defines request/response DTOs for the investors HTTP API.
package transport

// CreateOrganizationRequest registers a new investor organization.
type CreateOrganizationRequest struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Sector *string `json:"sector" validate:"omitempty,max=100"`
}

// CreateContactRequest adds a person to an investor organization.
type CreateContactRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

// AddRelationRequest puts an organization on a deal's longlist.
type AddRelationRequest struct {
	OrganizationID string `json:"organizationId" validate:"required,uuid"`
}

// SetRelationStatusRequest assigns a funnel status.
type SetRelationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateRelationRequest edits the non-status relation fields.
type UpdateRelationRequest struct {
	ContactID      *string `json:"contactId" validate:"omitempty,uuid"`
	Priority       *int    `json:"priority" validate:"omitempty,gte=0,lte=3"`
	Notes          *string `json:"notes" validate:"omitempty,max=4000"`
	ClientFeedback *string `json:"clientFeedback" validate:"omitempty,max=4000"`
}

// LogOutreachRequest records an outreach email to the relation's contact.
type LogOutreachRequest struct {
	Subject string `json:"subject" validate:"required,max=300"`
	Body    string `json:"body" validate:"omitempty,max=20000"`
}

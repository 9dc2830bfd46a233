// Package transport defines request DTOs for the users HTTP API.
package transport

// CreateUserRequest registers a new team member.
type CreateUserRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Initials        string  `json:"initials" validate:"omitempty,max=4"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	Role            *string `json:"role" validate:"omitempty,max=100"`
	AvatarColor     *string `json:"avatarColor" validate:"omitempty,max=32"`
	TeamsWebhookURL *string `json:"teamsWebhookUrl" validate:"omitempty,url"`
}

// UpdateUserRequest edits a team member; omitted fields stay unchanged.
type UpdateUserRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=200"`
	Initials        *string `json:"initials" validate:"omitempty,max=4"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	Role            *string `json:"role" validate:"omitempty,max=100"`
	AvatarColor     *string `json:"avatarColor" validate:"omitempty,max=32"`
	TeamsWebhookURL *string `json:"teamsWebhookUrl" validate:"omitempty,url"`
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a team member who can act on deals and receive notifications.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Initials        string     `json:"initials"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Role            *string    `json:"role,omitempty"`
	AvatarColor     *string    `json:"avatarColor,omitempty"`
	TeamsWebhookURL *string    `json:"teamsWebhookUrl,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateParams holds the fields for a new user.
type CreateParams struct {
	Name            string
	Initials        string
	Email           string
	Phone           *string
	Role            *string
	AvatarColor     *string
	TeamsWebhookURL *string
}

// UpdateParams holds partial updates; nil fields are left untouched.
type UpdateParams struct {
	ID              uuid.UUID
	Name            *string
	Initials        *string
	Email           *string
	Phone           *string
	Role            *string
	AvatarColor     *string
	TeamsWebhookURL *string
}

// Store is the persistence port for users.
type Store interface {
	Create(ctx context.Context, p CreateParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, p UpdateParams) (User, error)
}

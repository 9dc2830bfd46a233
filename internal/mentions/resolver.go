package mentions

import (
	"context"
	"strings"

	userrepo "github.com/Lugier/M-A-CRM-sub001/internal/users/repository"

	"github.com/google/uuid"
)

// Recipient is a resolved mention target.
type Recipient struct {
	UserID          uuid.UUID
	Name            string
	TeamsWebhookURL *string
}

// Resolver maps mention tokens to team members. The default implementation
// matches fuzzily on names; swapping in an exact-ID syntax later only needs
// a new Resolver, the fan-out stays untouched.
type Resolver interface {
	Resolve(ctx context.Context, tokens []string, actorID uuid.UUID) ([]Recipient, error)
}

// DirectoryResolver resolves tokens against the user directory. A token
// matches a user when it is a case-insensitive substring of the name or
// equals the initials. Over-matching is intended: "@max" notifies every Max.
// The acting user is never a recipient, even when their name matches.
type DirectoryResolver struct {
	users userrepo.Store
}

func NewDirectoryResolver(users userrepo.Store) *DirectoryResolver {
	return &DirectoryResolver{users: users}
}

func (r *DirectoryResolver) Resolve(ctx context.Context, tokens []string, actorID uuid.UUID) ([]Recipient, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	all, err := r.users.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	var recipients []Recipient
	for _, token := range tokens {
		lower := strings.ToLower(token)
		for _, u := range all {
			if u.ID == actorID {
				continue
			}
			if _, ok := seen[u.ID]; ok {
				continue
			}
			if !matches(u, lower) {
				continue
			}
			seen[u.ID] = struct{}{}
			recipients = append(recipients, Recipient{
				UserID:          u.ID,
				Name:            u.Name,
				TeamsWebhookURL: u.TeamsWebhookURL,
			})
		}
	}
	return recipients, nil
}

func matches(u userrepo.User, lowerToken string) bool {
	if strings.Contains(strings.ToLower(u.Name), lowerToken) {
		return true
	}
	return strings.EqualFold(u.Initials, lowerToken)
}

var _ Resolver = (*DirectoryResolver)(nil)

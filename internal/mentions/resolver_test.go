package mentions

import (
	"context"
	"testing"

	userrepo "github.com/Lugier/M-A-CRM-sub001/internal/users/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	users []userrepo.User
}

func (f *fakeDirectory) Create(context.Context, userrepo.CreateParams) (userrepo.User, error) {
	return userrepo.User{}, apperr.Internal("not implemented")
}

func (f *fakeDirectory) GetByID(context.Context, uuid.UUID) (userrepo.User, error) {
	return userrepo.User{}, apperr.Internal("not implemented")
}

func (f *fakeDirectory) List(context.Context) ([]userrepo.User, error) {
	return f.users, nil
}

func (f *fakeDirectory) Update(context.Context, userrepo.UpdateParams) (userrepo.User, error) {
	return userrepo.User{}, apperr.Internal("not implemented")
}

func TestResolveMatchesNameAndInitials(t *testing.T) {
	max := userrepo.User{ID: uuid.New(), Name: "Max Müller", Initials: "MM"}
	js := userrepo.User{ID: uuid.New(), Name: "Julia Schneider", Initials: "JS"}
	dir := &fakeDirectory{users: []userrepo.User{max, js}}
	r := NewDirectoryResolver(dir)

	tokens := Scan("Bitte @max und @JS checken")
	recipients, err := r.Resolve(context.Background(), tokens, uuid.New())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(recipients))
	}
	if recipients[0].UserID != max.ID || recipients[1].UserID != js.ID {
		t.Fatalf("unexpected recipients: %+v", recipients)
	}
}

func TestResolveOverMatchesSharedFirstName(t *testing.T) {
	a := userrepo.User{ID: uuid.New(), Name: "Max Müller", Initials: "MM"}
	b := userrepo.User{ID: uuid.New(), Name: "Max Schmidt", Initials: "MS"}
	dir := &fakeDirectory{users: []userrepo.User{a, b}}
	r := NewDirectoryResolver(dir)

	recipients, err := r.Resolve(context.Background(), []string{"max"}, uuid.New())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	// Notifying every Max beats silently missing one.
	if len(recipients) != 2 {
		t.Fatalf("expected both users named Max, got %d", len(recipients))
	}
}

func TestResolveExcludesActor(t *testing.T) {
	actor := userrepo.User{ID: uuid.New(), Name: "Max Müller", Initials: "MM"}
	dir := &fakeDirectory{users: []userrepo.User{actor}}
	r := NewDirectoryResolver(dir)

	recipients, err := r.Resolve(context.Background(), []string{"max"}, actor.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(recipients) != 0 {
		t.Fatalf("actor must never be a recipient, got %d", len(recipients))
	}
}

func TestResolveDeduplicatesAcrossTokens(t *testing.T) {
	u := userrepo.User{ID: uuid.New(), Name: "Julia Schneider", Initials: "JS"}
	dir := &fakeDirectory{users: []userrepo.User{u}}
	r := NewDirectoryResolver(dir)

	recipients, err := r.Resolve(context.Background(), []string{"julia", "JS"}, uuid.New())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(recipients) != 1 {
		t.Fatalf("expected user once, got %d recipients", len(recipients))
	}
}

func TestResolveUnknownTokenMatchesNobody(t *testing.T) {
	dir := &fakeDirectory{users: []userrepo.User{{ID: uuid.New(), Name: "Max Müller", Initials: "MM"}}}
	r := NewDirectoryResolver(dir)

	recipients, err := r.Resolve(context.Background(), []string{"hendrik"}, uuid.New())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(recipients) != 0 {
		t.Fatalf("expected no recipients, got %d", len(recipients))
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

type relationKey struct {
	dealID uuid.UUID
	orgID  uuid.UUID
}

// fakeStore mirrors the repository contract in memory, including the
// unique (deal, organization) pair and the once-only milestone stamps.
type fakeStore struct {
	orgs      map[uuid.UUID]repository.Organization
	contacts  map[uuid.UUID]repository.Contact
	relations map[relationKey]repository.Relation
	outreach  []repository.LogOutreachParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:      make(map[uuid.UUID]repository.Organization),
		contacts:  make(map[uuid.UUID]repository.Contact),
		relations: make(map[relationKey]repository.Relation),
	}
}

func (f *fakeStore) CreateOrganization(_ context.Context, name string, sector *string) (repository.Organization, error) {
	org := repository.Organization{ID: uuid.New(), Name: name, Sector: sector, CreatedAt: time.Now()}
	f.orgs[org.ID] = org
	return org, nil
}

func (f *fakeStore) ListOrganizations(_ context.Context) ([]repository.Organization, error) {
	var out []repository.Organization
	for _, o := range f.orgs {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStore) CreateContact(_ context.Context, orgID uuid.UUID, name string, email, phone *string) (repository.Contact, error) {
	c := repository.Contact{ID: uuid.New(), OrganizationID: orgID, Name: name, Email: email, Phone: phone, CreatedAt: time.Now()}
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetContact(_ context.Context, id uuid.UUID) (repository.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return repository.Contact{}, apperr.NotFound("contact not found")
	}
	return c, nil
}

func (f *fakeStore) AddRelation(_ context.Context, dealID, orgID uuid.UUID) (repository.Relation, error) {
	key := relationKey{dealID, orgID}
	if _, ok := f.relations[key]; ok {
		return repository.Relation{}, apperr.Conflict("organization is already on the longlist")
	}
	now := time.Now()
	rel := repository.Relation{
		ID: uuid.New(), DealID: dealID, OrganizationID: orgID,
		Status: domain.StatusLonglist, CreatedAt: now, UpdatedAt: now,
	}
	f.relations[key] = rel
	return rel, nil
}

func (f *fakeStore) GetRelation(_ context.Context, dealID, orgID uuid.UUID) (repository.Relation, error) {
	rel, ok := f.relations[relationKey{dealID, orgID}]
	if !ok {
		return repository.Relation{}, apperr.NotFound("relation not found")
	}
	return rel, nil
}

func (f *fakeStore) ListRelationsForDeal(_ context.Context, dealID uuid.UUID) ([]repository.Relation, error) {
	var out []repository.Relation
	for _, rel := range f.relations {
		if rel.DealID == dealID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (f *fakeStore) SetStatus(_ context.Context, dealID, orgID uuid.UUID, status domain.RelationStatus) (repository.Relation, error) {
	key := relationKey{dealID, orgID}
	rel, ok := f.relations[key]
	if !ok {
		return repository.Relation{}, apperr.NotFound("relation not found")
	}
	rel.Status = status
	now := time.Now()
	switch status {
	case domain.StatusContacted:
		if rel.EmailSentAt == nil {
			rel.EmailSentAt = &now
		}
	case domain.StatusNDASent:
		if rel.NDASentAt == nil {
			rel.NDASentAt = &now
		}
	case domain.StatusNDASigned:
		if rel.NDASignedAt == nil {
			rel.NDASignedAt = &now
		}
	case domain.StatusIMSent:
		if rel.IMSentAt == nil {
			rel.IMSentAt = &now
		}
	}
	rel.UpdatedAt = now
	f.relations[key] = rel
	return rel, nil
}

func (f *fakeStore) UpdateRelation(_ context.Context, p repository.UpdateRelationParams) (repository.Relation, error) {
	key := relationKey{p.DealID, p.OrganizationID}
	rel, ok := f.relations[key]
	if !ok {
		return repository.Relation{}, apperr.NotFound("relation not found")
	}
	if p.ContactID != nil {
		rel.ContactID = p.ContactID
	}
	if p.Priority != nil {
		rel.Priority = *p.Priority
	}
	if p.Notes != nil {
		rel.Notes = p.Notes
	}
	if p.ClientFeedback != nil {
		rel.ClientFeedback = p.ClientFeedback
	}
	f.relations[key] = rel
	return rel, nil
}

func (f *fakeStore) DeleteRelation(_ context.Context, dealID, orgID uuid.UUID) error {
	key := relationKey{dealID, orgID}
	if _, ok := f.relations[key]; !ok {
		return apperr.NotFound("relation not found")
	}
	delete(f.relations, key)
	return nil
}

func (f *fakeStore) LogOutreach(_ context.Context, p repository.LogOutreachParams) (repository.Relation, error) {
	key := relationKey{p.DealID, p.OrganizationID}
	rel, ok := f.relations[key]
	if !ok {
		return repository.Relation{}, apperr.NotFound("relation not found")
	}
	rel.Status = domain.StatusContacted
	if rel.EmailSentAt == nil {
		now := time.Now()
		rel.EmailSentAt = &now
	}
	f.relations[key] = rel
	f.outreach = append(f.outreach, p)
	return rel, nil
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *captureBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

// failingSender always errors; used to prove delivery never blocks the log.
type failingSender struct {
	calls int
}

func (s *failingSender) Send(context.Context, string, string, string) error {
	s.calls++
	return errors.New("smtp relay unreachable")
}

func newTestService(sender EmailSender) (*Service, *fakeStore, *captureBus) {
	store := newFakeStore()
	bus := &captureBus{}
	return New(store, sender, bus, logger.New("development")), store, bus
}

func TestAddDuplicateIsConflict(t *testing.T) {
	svc, _, _ := newTestService(nil)
	dealID, orgID := uuid.New(), uuid.New()

	if _, err := svc.Add(context.Background(), dealID, orgID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := svc.Add(context.Background(), dealID, orgID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, bus := newTestService(nil)
	dealID, orgID := uuid.New(), uuid.New()
	if _, err := svc.Add(context.Background(), dealID, orgID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err := svc.SetStatus(context.Background(), dealID, orgID, "TEASER_SENT")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestSetStatusPublishesOnlyOnChange(t *testing.T) {
	svc, _, bus := newTestService(nil)
	dealID, orgID := uuid.New(), uuid.New()
	if _, err := svc.Add(context.Background(), dealID, orgID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), dealID, orgID, domain.StatusLonglist); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("unchanged status must not publish, got %d events", len(bus.published))
	}

	rel, err := svc.SetStatus(context.Background(), dealID, orgID, domain.StatusNDASigned)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if rel.NDASignedAt == nil {
		t.Fatal("NDA_SIGNED must stamp ndaSignedAt")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event after change, got %d", len(bus.published))
	}
	changed, ok := bus.published[0].(events.InvestorStatusChanged)
	if !ok {
		t.Fatalf("expected InvestorStatusChanged, got %T", bus.published[0])
	}
	if changed.OldStatus != "LONGLIST" || changed.NewStatus != "NDA_SIGNED" {
		t.Fatalf("unexpected event payload: %+v", changed)
	}
}

func TestSetStatusKeepsFirstMilestoneStamp(t *testing.T) {
	svc, _, _ := newTestService(nil)
	dealID, orgID := uuid.New(), uuid.New()
	if _, err := svc.Add(context.Background(), dealID, orgID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	first, err := svc.SetStatus(context.Background(), dealID, orgID, domain.StatusNDASent)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), dealID, orgID, domain.StatusDropped); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	again, err := svc.SetStatus(context.Background(), dealID, orgID, domain.StatusNDASent)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if !again.NDASentAt.Equal(*first.NDASentAt) {
		t.Fatalf("ndaSentAt moved from %v to %v", first.NDASentAt, again.NDASentAt)
	}
}

func TestUpdateRejectsPriorityOutOfRange(t *testing.T) {
	svc, _, _ := newTestService(nil)
	dealID, orgID := uuid.New(), uuid.New()
	if _, err := svc.Add(context.Background(), dealID, orgID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	p := 4
	_, err := svc.Update(context.Background(), repository.UpdateRelationParams{
		DealID: dealID, OrganizationID: orgID, Priority: &p,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogOutreachRequiresSubject(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.LogOutreach(context.Background(), repository.LogOutreachParams{
		DealID: uuid.New(), OrganizationID: uuid.New(), ActorID: uuid.New(), Subject: "  ",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogOutreachSurvivesSendFailure(t *testing.T) {
	sender := &failingSender{}
	svc, store, bus := newTestService(sender)
	dealID, orgID := uuid.New(), uuid.New()
	if _, err := svc.Add(context.Background(), dealID, orgID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	email := "anna.weber@fund.example"
	contact, err := svc.CreateContact(context.Background(), orgID, "Anna Weber", &email, nil)
	if err != nil {
		t.Fatalf("create contact failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), repository.UpdateRelationParams{
		DealID: dealID, OrganizationID: orgID, ContactID: &contact.ID,
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rel, err := svc.LogOutreach(context.Background(), repository.LogOutreachParams{
		DealID: dealID, OrganizationID: orgID, ActorID: uuid.New(),
		Subject: "Projekt Adler – Teaser", Body: "<p>Sehr geehrte Frau Weber ...</p>",
	})
	if err != nil {
		t.Fatalf("log outreach must not surface a send failure, got %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("expected 1 send attempt, got %d", sender.calls)
	}
	if rel.Status != domain.StatusContacted {
		t.Fatalf("expected status CONTACTED, got %s", rel.Status)
	}
	if len(store.outreach) != 1 {
		t.Fatalf("expected 1 recorded outreach, got %d", len(store.outreach))
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected OutreachLogged event, got %d events", len(bus.published))
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

// fakeStore keeps deals and their stage ledger in memory, mirroring the
// transactional contract: TransitionStage updates the stage and appends the
// history entry as one step.
type fakeStore struct {
	deals   map[uuid.UUID]repository.Deal
	history map[uuid.UUID][]repository.HistoryEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deals:   make(map[uuid.UUID]repository.Deal),
		history: make(map[uuid.UUID][]repository.HistoryEntry),
	}
}

func (f *fakeStore) seed(stage domain.Stage, status domain.Status) uuid.UUID {
	id := uuid.New()
	now := time.Now()
	f.deals[id] = repository.Deal{ID: id, Name: "Projekt Adler", Stage: stage, Status: status, CreatedAt: now, UpdatedAt: now}
	f.history[id] = []repository.HistoryEntry{{ID: uuid.New(), DealID: id, Stage: stage, EnteredAt: now}}
	return id
}

func (f *fakeStore) Create(_ context.Context, p repository.CreateParams) (repository.Deal, error) {
	id := uuid.New()
	now := time.Now()
	deal := repository.Deal{ID: id, Name: p.Name, Stage: domain.InitialStage, Status: domain.StatusLead, CreatedAt: now, UpdatedAt: now}
	f.deals[id] = deal
	f.history[id] = []repository.HistoryEntry{{ID: uuid.New(), DealID: id, Stage: domain.InitialStage, EnteredAt: now}}
	return deal, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Deal, error) {
	deal, ok := f.deals[id]
	if !ok {
		return repository.Deal{}, apperr.NotFound("deal not found")
	}
	return deal, nil
}

func (f *fakeStore) List(_ context.Context) ([]repository.Deal, error) {
	var out []repository.Deal
	for _, d := range f.deals {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, p repository.UpdateParams) (repository.Deal, error) {
	deal, ok := f.deals[p.ID]
	if !ok {
		return repository.Deal{}, apperr.NotFound("deal not found")
	}
	if p.Name != nil {
		deal.Name = *p.Name
	}
	f.deals[p.ID] = deal
	return deal, nil
}

func (f *fakeStore) TransitionStage(_ context.Context, dealID uuid.UUID, newStage domain.Stage) (domain.Stage, error) {
	deal, ok := f.deals[dealID]
	if !ok {
		return "", apperr.NotFound("deal not found")
	}
	old := deal.Stage
	deal.Stage = newStage
	deal.UpdatedAt = time.Now()
	f.deals[dealID] = deal
	f.history[dealID] = append(f.history[dealID], repository.HistoryEntry{
		ID: uuid.New(), DealID: dealID, Stage: newStage, EnteredAt: time.Now(),
	})
	return old, nil
}

func (f *fakeStore) SetStatus(_ context.Context, dealID uuid.UUID, status domain.Status) (domain.Status, error) {
	deal, ok := f.deals[dealID]
	if !ok {
		return "", apperr.NotFound("deal not found")
	}
	old := deal.Status
	deal.Status = status
	f.deals[dealID] = deal
	return old, nil
}

func (f *fakeStore) EntriesForDeal(_ context.Context, dealID uuid.UUID) ([]repository.HistoryEntry, error) {
	return f.history[dealID], nil
}

func (f *fakeStore) LastEntry(_ context.Context, dealID uuid.UUID) (repository.HistoryEntry, error) {
	entries := f.history[dealID]
	if len(entries) == 0 {
		return repository.HistoryEntry{}, apperr.NotFound("no history")
	}
	return entries[len(entries)-1], nil
}

func (f *fakeStore) DeleteCascade(_ context.Context, dealID uuid.UUID) error {
	if _, ok := f.deals[dealID]; !ok {
		return apperr.NotFound("deal not found")
	}
	delete(f.deals, dealID)
	delete(f.history, dealID)
	return nil
}

// captureBus records published events synchronously.
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

func newTestService() (*Service, *fakeStore, *captureBus) {
	store := newFakeStore()
	bus := &captureBus{}
	return New(store, bus, logger.New("development")), store, bus
}

func TestTransitionKeepsStageAndLedgerConsistent(t *testing.T) {
	svc, store, _ := newTestService()
	dealID := store.seed(domain.StagePitch, domain.StatusActive)

	deal, err := svc.Transition(context.Background(), dealID, domain.StageKickoff, uuid.New())
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if deal.Stage != domain.StageKickoff {
		t.Fatalf("expected stage KICKOFF, got %s", deal.Stage)
	}

	last, err := store.LastEntry(context.Background(), dealID)
	if err != nil {
		t.Fatalf("last entry: %v", err)
	}
	if last.Stage != deal.Stage {
		t.Fatalf("ledger last entry %s diverges from deal stage %s", last.Stage, deal.Stage)
	}
}

func TestTransitionRejectsUnknownStage(t *testing.T) {
	svc, store, bus := newTestService()
	dealID := store.seed(domain.StagePitch, domain.StatusActive)

	_, err := svc.Transition(context.Background(), dealID, "SIGNING", uuid.New())
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
	if store.deals[dealID].Stage != domain.StagePitch {
		t.Fatalf("stage must stay PITCH, got %s", store.deals[dealID].Stage)
	}
}

func TestTransitionAllowsBackwardMoves(t *testing.T) {
	svc, store, _ := newTestService()
	dealID := store.seed(domain.StageNegotiation, domain.StatusActive)

	deal, err := svc.Transition(context.Background(), dealID, domain.StageMarketing, uuid.New())
	if err != nil {
		t.Fatalf("backward transition failed: %v", err)
	}
	if deal.Stage != domain.StageMarketing {
		t.Fatalf("expected stage MARKETING, got %s", deal.Stage)
	}
}

func TestTransitionPublishesStageChanged(t *testing.T) {
	svc, store, bus := newTestService()
	dealID := store.seed(domain.StagePitch, domain.StatusActive)
	actorID := uuid.New()

	if _, err := svc.Transition(context.Background(), dealID, domain.StageKickoff, actorID); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	changed, ok := bus.published[0].(events.DealStageChanged)
	if !ok {
		t.Fatalf("expected DealStageChanged, got %T", bus.published[0])
	}
	if changed.OldStage != "PITCH" || changed.NewStage != "KICKOFF" || changed.ActorID != actorID {
		t.Fatalf("unexpected event payload: %+v", changed)
	}
}

func TestSetStatusPublishesOnlyOnChange(t *testing.T) {
	svc, store, bus := newTestService()
	dealID := store.seed(domain.StagePitch, domain.StatusActive)

	if _, err := svc.SetStatus(context.Background(), dealID, domain.StatusActive); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("unchanged status must not publish, got %d events", len(bus.published))
	}

	if _, err := svc.SetStatus(context.Background(), dealID, domain.StatusOnHold); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event after change, got %d", len(bus.published))
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), repository.CreateParams{Name: "   "})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsOutOfRangeProbability(t *testing.T) {
	svc, _, _ := newTestService()

	p := 1.5
	_, err := svc.Create(context.Background(), repository.CreateParams{Name: "Projekt Falke", Probability: &p})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeletePublishesDealDeleted(t *testing.T) {
	svc, store, bus := newTestService()
	dealID := store.seed(domain.StagePitch, domain.StatusActive)

	if err := svc.Delete(context.Background(), dealID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := store.deals[dealID]; ok {
		t.Fatal("deal should be gone")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.DealDeleted); !ok {
		t.Fatalf("expected DealDeleted, got %T", bus.published[0])
	}
}

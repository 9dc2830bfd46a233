package service

import (
	"context"
	"testing"
	"time"

	dealdomain "github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	tasks map[uuid.UUID]repository.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[uuid.UUID]repository.Task)}
}

func (f *fakeStore) Create(_ context.Context, p repository.CreateParams) (repository.Task, error) {
	now := time.Now()
	task := repository.Task{
		ID: uuid.New(), DealID: p.DealID, Title: p.Title,
		Description: p.Description, DueAt: p.DueAt, CreatedAt: now, UpdatedAt: now,
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeStore) CreateBatch(ctx context.Context, batch []repository.CreateParams) error {
	for _, p := range batch {
		if _, err := f.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) ListForDeal(_ context.Context, dealID uuid.UUID) ([]repository.Task, error) {
	var out []repository.Task
	for _, task := range f.tasks {
		if task.DealID == dealID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeStore) SetDone(_ context.Context, id uuid.UUID, done bool) (repository.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return repository.Task{}, apperr.NotFound("task not found")
	}
	task.Done = done
	f.tasks[id] = task
	return task, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return apperr.NotFound("task not found")
	}
	delete(f.tasks, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	rules, err := LoadRules()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	store := newFakeStore()
	return New(store, rules, logger.New("development")), store
}

func stageChanged(dealID uuid.UUID, newStage dealdomain.Stage) events.DealStageChanged {
	return events.DealStageChanged{
		BaseEvent: events.NewBaseEvent(),
		DealID:    dealID,
		OldStage:  string(dealdomain.StagePitch),
		NewStage:  string(newStage),
		ActorID:   uuid.New(),
	}
}

func TestHandleStageChangedCreatesChecklist(t *testing.T) {
	svc, store := newTestService(t)
	dealID := uuid.New()

	if err := svc.HandleStageChanged(context.Background(), stageChanged(dealID, dealdomain.StageDueDiligence)); err != nil {
		t.Fatalf("handle stage changed: %v", err)
	}

	tasks, _ := store.ListForDeal(context.Background(), dealID)
	if len(tasks) == 0 {
		t.Fatal("entering DUE_DILIGENCE must create checklist tasks")
	}
	for _, task := range tasks {
		if task.Done {
			t.Fatalf("new task %q must start open", task.Title)
		}
	}
}

func TestHandleStageChangedWithoutRulesIsNoOp(t *testing.T) {
	svc, store := newTestService(t)
	dealID := uuid.New()

	if err := svc.HandleStageChanged(context.Background(), stageChanged(dealID, dealdomain.StageArchived)); err != nil {
		t.Fatalf("handle stage changed: %v", err)
	}
	if len(store.tasks) != 0 {
		t.Fatalf("ARCHIVED has no rules, got %d tasks", len(store.tasks))
	}
}

func TestHandleStageChangedReentryDuplicates(t *testing.T) {
	svc, store := newTestService(t)
	dealID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := svc.HandleStageChanged(context.Background(), stageChanged(dealID, dealdomain.StageKickoff)); err != nil {
			t.Fatalf("handle stage changed: %v", err)
		}
	}

	tasks, _ := store.ListForDeal(context.Background(), dealID)
	rules, _ := LoadRules()
	if want := 2 * len(rules[dealdomain.StageKickoff]); len(tasks) != want {
		t.Fatalf("re-entry must create the checklist again: got %d tasks, want %d", len(tasks), want)
	}
}

func TestHandleStageChangedRejectsForeignEvent(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.HandleStageChanged(context.Background(), events.DealDeleted{BaseEvent: events.NewBaseEvent()})
	if err == nil {
		t.Fatal("expected an error for a foreign event type")
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), repository.CreateParams{DealID: uuid.New(), Title: " "})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

package mentions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/inapp"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/outbox"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

type fakeInApp struct {
	batches [][]inapp.CreateParams
	failure error
}

func (f *fakeInApp) CreateBatch(_ context.Context, batch []inapp.CreateParams) error {
	if f.failure != nil {
		return f.failure
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeInApp) ListForUser(context.Context, uuid.UUID, bool, int) ([]inapp.Notification, error) {
	return nil, nil
}

func (f *fakeInApp) UnreadCount(context.Context, uuid.UUID) (int, error) { return 0, nil }
func (f *fakeInApp) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (f *fakeInApp) MarkAllRead(context.Context, uuid.UUID) error { return nil }

type fakeOutbox struct {
	enqueued []outbox.EnqueueParams
	// failOn errors the enqueue for this webhook URL only.
	failOn string
}

func (f *fakeOutbox) Enqueue(_ context.Context, p outbox.EnqueueParams) (outbox.Message, error) {
	if f.failOn != "" && p.WebhookURL == f.failOn {
		return outbox.Message{}, errors.New("outbox insert failed")
	}
	f.enqueued = append(f.enqueued, p)
	return outbox.Message{ID: uuid.New(), WebhookURL: p.WebhookURL, Status: outbox.StatusPending}, nil
}

func (f *fakeOutbox) GetByID(context.Context, uuid.UUID) (outbox.Message, error) {
	return outbox.Message{}, nil
}

func (f *fakeOutbox) ClaimPending(context.Context, int) ([]outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkProcessing(context.Context, uuid.UUID) (outbox.Message, error) {
	return outbox.Message{}, nil
}

func (f *fakeOutbox) MarkSucceeded(context.Context, uuid.UUID) error { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, uuid.UUID, string) error {
	return nil
}

type staticResolver struct {
	recipients []Recipient
	failure    error
}

func (r *staticResolver) Resolve(context.Context, []string, uuid.UUID) ([]Recipient, error) {
	return r.recipients, r.failure
}

func webhook(url string) *string { return &url }

func newTestNotifier(resolver Resolver, in *fakeInApp, out *fakeOutbox) *Notifier {
	return NewNotifier(resolver, in, out, "https://crm.example", logger.New("development"))
}

func TestNotifyCreatesInAppBatchAndEnqueuesWebhooks(t *testing.T) {
	withHook := Recipient{UserID: uuid.New(), Name: "Julia Schneider", TeamsWebhookURL: webhook("https://hooks.example/js")}
	withoutHook := Recipient{UserID: uuid.New(), Name: "Max Müller"}
	in := &fakeInApp{}
	out := &fakeOutbox{}
	n := newTestNotifier(&staticResolver{recipients: []Recipient{withHook, withoutHook}}, in, out)

	dealID := uuid.New()
	n.Notify(context.Background(), NotifyParams{
		DealID: dealID, DealName: "Projekt Adler",
		ActorID: uuid.New(), ActorName: "Tom Fischer",
		Content: "Bitte @julia und @max checken",
	})

	if len(in.batches) != 1 || len(in.batches[0]) != 2 {
		t.Fatalf("expected one batch with 2 notifications, got %+v", in.batches)
	}
	note := in.batches[0][0]
	if !strings.Contains(note.Content, "Tom Fischer") || !strings.Contains(note.Content, "Projekt Adler") {
		t.Fatalf("notification content missing actor or deal: %q", note.Content)
	}
	if note.Link == nil || !strings.HasSuffix(*note.Link, "/deals/"+dealID.String()) {
		t.Fatalf("unexpected link: %v", note.Link)
	}

	if len(out.enqueued) != 1 {
		t.Fatalf("expected 1 webhook enqueue, got %d", len(out.enqueued))
	}
	if out.enqueued[0].WebhookURL != "https://hooks.example/js" {
		t.Fatalf("unexpected webhook URL: %s", out.enqueued[0].WebhookURL)
	}
}

func TestNotifyWithoutMentionsIsNoOp(t *testing.T) {
	in := &fakeInApp{}
	out := &fakeOutbox{}
	n := newTestNotifier(&staticResolver{recipients: []Recipient{{UserID: uuid.New()}}}, in, out)

	n.Notify(context.Background(), NotifyParams{Content: "Kein Hinweis an niemanden"})

	if len(in.batches) != 0 || len(out.enqueued) != 0 {
		t.Fatal("content without mentions must not notify anyone")
	}
}

func TestNotifySwallowsResolverFailure(t *testing.T) {
	in := &fakeInApp{}
	out := &fakeOutbox{}
	n := newTestNotifier(&staticResolver{failure: errors.New("directory down")}, in, out)

	n.Notify(context.Background(), NotifyParams{Content: "Ping @max"})

	if len(in.batches) != 0 || len(out.enqueued) != 0 {
		t.Fatal("resolver failure must not produce notifications")
	}
}

func TestNotifySkipsWebhooksWhenBatchFails(t *testing.T) {
	rec := Recipient{UserID: uuid.New(), TeamsWebhookURL: webhook("https://hooks.example/x")}
	in := &fakeInApp{failure: errors.New("insert failed")}
	out := &fakeOutbox{}
	n := newTestNotifier(&staticResolver{recipients: []Recipient{rec}}, in, out)

	n.Notify(context.Background(), NotifyParams{Content: "Ping @max"})

	if len(out.enqueued) != 0 {
		t.Fatal("no webhook may be enqueued when the in-app batch failed")
	}
}

func TestNotifyIsolatesEnqueueFailures(t *testing.T) {
	first := Recipient{UserID: uuid.New(), TeamsWebhookURL: webhook("https://hooks.example/broken")}
	second := Recipient{UserID: uuid.New(), TeamsWebhookURL: webhook("https://hooks.example/ok")}
	in := &fakeInApp{}
	out := &fakeOutbox{failOn: "https://hooks.example/broken"}
	n := newTestNotifier(&staticResolver{recipients: []Recipient{first, second}}, in, out)

	n.Notify(context.Background(), NotifyParams{Content: "Ping @max @julia"})

	if len(out.enqueued) != 1 {
		t.Fatalf("expected the second enqueue to survive, got %d", len(out.enqueued))
	}
	if out.enqueued[0].WebhookURL != "https://hooks.example/ok" {
		t.Fatalf("unexpected surviving webhook: %s", out.enqueued[0].WebhookURL)
	}
}

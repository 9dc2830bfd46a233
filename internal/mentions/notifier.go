package mentions

import (
	"context"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/inapp"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/outbox"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

const snippetLimit = 200

// NotifyParams describes one persisted piece of free text to fan out.
type NotifyParams struct {
	DealID    uuid.UUID
	DealName  string
	ActorID   uuid.UUID
	ActorName string
	Content   string
}

// Notifier turns @-mentions in persisted content into in-app notifications
// and queued webhook deliveries. In-app notifications land as one batch
// before any webhook message is enqueued; webhook delivery itself is the
// outbox dispatcher's job and failures there never reach the caller.
type Notifier struct {
	resolver Resolver
	inapp    inapp.Store
	outbox   outbox.Store
	baseURL  string
	log      *logger.Logger
}

func NewNotifier(resolver Resolver, inappStore inapp.Store, outboxStore outbox.Store, baseURL string, log *logger.Logger) *Notifier {
	return &Notifier{
		resolver: resolver,
		inapp:    inappStore,
		outbox:   outboxStore,
		baseURL:  baseURL,
		log:      log,
	}
}

// Notify is best-effort end to end: the caller's mutation is already
// committed, so every failure here is logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, p NotifyParams) {
	tokens := Scan(p.Content)
	if len(tokens) == 0 {
		return
	}

	recipients, err := n.resolver.Resolve(ctx, tokens, p.ActorID)
	if err != nil {
		n.log.SideEffectFailed("mention resolution", err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	link := fmt.Sprintf("%s/deals/%s", n.baseURL, p.DealID)
	content := fmt.Sprintf("%s hat dich in %q erwähnt: %s", p.ActorName, p.DealName, snippet(p.Content))

	batch := make([]inapp.CreateParams, 0, len(recipients))
	for _, rec := range recipients {
		batch = append(batch, inapp.CreateParams{
			UserID:  rec.UserID,
			Content: content,
			Link:    &link,
		})
	}
	if err := n.inapp.CreateBatch(ctx, batch); err != nil {
		n.log.SideEffectFailed("mention notifications", err)
		return
	}

	title := fmt.Sprintf("Neue Erwähnung in %s", p.DealName)
	for _, rec := range recipients {
		if rec.TeamsWebhookURL == nil || *rec.TeamsWebhookURL == "" {
			continue
		}
		_, err := n.outbox.Enqueue(ctx, outbox.EnqueueParams{
			WebhookURL: *rec.TeamsWebhookURL,
			Title:      title,
			Body:       content,
			Link:       &link,
		})
		if err != nil {
			// One broken enqueue must not cost the remaining recipients.
			n.log.SideEffectFailed("mention webhook enqueue", err)
		}
	}
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLimit {
		return content
	}
	return string(runes[:snippetLimit]) + "…"
}

package scheduler

import (
	"context"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/outbox"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
)

const (
	dispatchInterval = 2 * time.Second
	dispatchBatch    = 50
)

// Dispatcher polls the webhook outbox and hands pending records to the
// worker queue. Claiming uses SKIP LOCKED, so several dispatchers can run
// side by side without double-enqueueing.
type Dispatcher struct {
	repo   outbox.Store
	client *Client
	log    *logger.Logger
}

func NewDispatcher(repo outbox.Store, client *Client, log *logger.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, client: client, log: log}
}

func (d *Dispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		records, err := d.repo.ClaimPending(ctx, dispatchBatch)
		if err != nil {
			d.log.Warn("outbox claim failed", "error", err)
			continue
		}

		for _, rec := range records {
			err := d.client.EnqueueWebhookDeliver(ctx, WebhookDeliverPayload{OutboxID: rec.ID.String()})
			if err != nil {
				// Put the record back so a later tick retries it.
				_ = d.repo.MarkFailed(ctx, rec.ID, err.Error())
				d.log.Warn("outbox enqueue failed", "outbox_id", rec.ID, "error", err)
			}
		}
	}
}

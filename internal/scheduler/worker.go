package scheduler

import (
	"context"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/config"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/outbox"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/teams"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes delivery tasks and posts the webhook. Retry bookkeeping
// lives in the outbox table, not in asynq: a failed post marks the record
// and returns nil so asynq never schedules a competing retry.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   outbox.Store
	teams  *teams.Client
	log    *logger.Logger
}

func NewWorker(cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.AsynqQueue
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.AsynqConcurrency
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   outbox.New(pool),
		teams:  teams.NewClient(),
		log:    log,
	}

	mux.HandleFunc(TaskWebhookDeliver, w.handleWebhookDeliver)

	return w, nil
}

func (w *Worker) handleWebhookDeliver(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWebhookDeliverPayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	msg, err := w.repo.MarkProcessing(ctx, outboxID)
	if err != nil {
		return err
	}

	if err := w.teams.Send(ctx, msg.WebhookURL, msg.Title, msg.Body, msg.Link); err != nil {
		w.log.SideEffectFailed("webhook delivery", err)
		return w.repo.MarkFailed(ctx, outboxID, err.Error())
	}

	return w.repo.MarkSucceeded(ctx, outboxID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

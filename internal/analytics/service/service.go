// Package service derives funnel, duration and revenue metrics by replaying
// deal history and investor relations. Everything here is read-only and
// runs outside any write path.
package service

import (
	"context"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Report is the full dashboard payload.
type Report struct {
	WeightedPipelineCents  int64          `json:"weightedPipelineCents"`
	BookedRevenueCents     int64          `json:"bookedRevenueCents"`
	AvgMandateDurationDays float64        `json:"avgMandateDurationDays"`
	NDAConversionRate      float64        `json:"ndaConversionRate"`
	Funnel                 FunnelCounts   `json:"funnel"`
	RevenueTrend           []MonthRevenue `json:"revenueTrend"`
}

type Service struct {
	repo repository.Store
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Dashboard loads all inputs and computes the report in memory. The three
// loads are independent and run concurrently.
func (s *Service) Dashboard(ctx context.Context) (Report, error) {
	var (
		deals     []repository.Deal
		history   []repository.HistoryEntry
		relations []repository.Relation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deals, err = s.repo.LoadDeals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.repo.LoadHistory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		relations, err = s.repo.LoadRelations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{
		WeightedPipelineCents:  WeightedPipelineValue(deals),
		BookedRevenueCents:     BookedRevenue(deals),
		AvgMandateDurationDays: AverageMandateDuration(deals, history),
		NDAConversionRate:      NDAConversionRate(relations),
		Funnel:                 Funnel(deals, relations),
		RevenueTrend:           RevenueTrend(deals, s.now()),
	}, nil
}

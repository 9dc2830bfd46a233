package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/repository"
	dealdomain "github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	invdomain "github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"

	"github.com/google/uuid"
)

const hoursPerDay = 24

// pastNDA are the funnel statuses that imply a signed NDA.
var pastNDA = map[invdomain.RelationStatus]bool{
	invdomain.StatusNDASigned:         true,
	invdomain.StatusIMSent:            true,
	invdomain.StatusProcessLetterSent: true,
	invdomain.StatusBidReceived:       true,
}

// germanShortMonths indexes time.Month values 1..12.
var germanShortMonths = [13]string{"",
	"Jan", "Feb", "Mär", "Apr", "Mai", "Jun",
	"Jul", "Aug", "Sep", "Okt", "Nov", "Dez",
}

// FunnelCounts are independent milestone counts, not a cumulative subset
// chain. A relation can count for NDA Signed without counting for Contacted
// being its current status.
type FunnelCounts struct {
	Longlist     int `json:"longlist"`
	Contacted    int `json:"contacted"`
	NDASigned    int `json:"ndaSigned"`
	BidsReceived int `json:"bidsReceived"`
	Closing      int `json:"closing"`
}

// MonthRevenue is one point of the trailing revenue trend.
type MonthRevenue struct {
	Label        string `json:"label"`
	RevenueCents int64  `json:"revenueCents"`
}

func dealValueCents(d repository.Deal) int64 {
	if d.FeeSuccessCents != nil {
		return *d.FeeSuccessCents
	}
	if d.ExpectedValueCents != nil {
		return *d.ExpectedValueCents
	}
	return 0
}

func isOpen(d repository.Deal) bool {
	return dealdomain.IsOpen(dealdomain.Status(d.Status), dealdomain.Stage(d.Stage))
}

// WeightedPipelineValue sums value times win probability over open deals.
// A missing probability contributes zero, it never excludes the deal.
func WeightedPipelineValue(deals []repository.Deal) int64 {
	var total float64
	for _, d := range deals {
		if !isOpen(d) {
			continue
		}
		p := 0.0
		if d.Probability != nil {
			p = *d.Probability
		}
		total += float64(dealValueCents(d)) * p
	}
	return int64(math.Round(total))
}

// BookedRevenue sums the realized value of closed-won deals.
func BookedRevenue(deals []repository.Deal) int64 {
	var total int64
	for _, d := range deals {
		if dealdomain.Status(d.Status) != dealdomain.StatusClosedWon {
			continue
		}
		total += dealValueCents(d)
	}
	return total
}

// AverageMandateDuration is the mean running time in days of closed-won
// mandates, from kickoff to closing. Deals without a usable positive
// duration are skipped; no qualifying deal means 0, never NaN.
func AverageMandateDuration(deals []repository.Deal, history []repository.HistoryEntry) float64 {
	byDeal := groupHistory(history)

	var sum float64
	var count int
	for _, d := range deals {
		if dealdomain.Status(d.Status) != dealdomain.StatusClosedWon {
			continue
		}

		entries := byDeal[d.ID]

		start := d.CreatedAt
		if e, ok := firstEntryWithStage(entries, dealdomain.StageKickoff); ok {
			start = e.EnteredAt
		}

		end := d.UpdatedAt
		if e, ok := firstEntryWithStage(entries, dealdomain.StageClosing); ok {
			end = e.EnteredAt
		} else if len(entries) > 0 {
			end = entries[len(entries)-1].EnteredAt
		}

		days := end.Sub(start).Hours() / hoursPerDay
		if days <= 0 {
			continue
		}
		sum += days
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// NDAConversionRate is the share of contacted relations that got past the
// NDA, as a percentage with one decimal. Zero when nothing was contacted.
func NDAConversionRate(relations []repository.Relation) float64 {
	var signed, contacted int
	for _, rel := range relations {
		status := invdomain.RelationStatus(rel.Status)
		if invdomain.IsPreOutreach(status) {
			continue
		}
		contacted++
		if pastNDA[status] || rel.NDASignedAt != nil {
			signed++
		}
	}
	if contacted == 0 {
		return 0
	}
	return math.Round(float64(signed)/float64(contacted)*1000) / 10
}

// Funnel computes the milestone counts over relations of open deals; the
// closing count is the number of closed-won deals overall.
func Funnel(deals []repository.Deal, relations []repository.Relation) FunnelCounts {
	openDeals := make(map[uuid.UUID]bool, len(deals))
	var counts FunnelCounts
	for _, d := range deals {
		if isOpen(d) {
			openDeals[d.ID] = true
		}
		if dealdomain.Status(d.Status) == dealdomain.StatusClosedWon {
			counts.Closing++
		}
	}

	for _, rel := range relations {
		if !openDeals[rel.DealID] {
			continue
		}
		counts.Longlist++

		status := invdomain.RelationStatus(rel.Status)
		if invdomain.IsPreOutreach(status) {
			continue
		}
		counts.Contacted++
		if pastNDA[status] || rel.NDASignedAt != nil {
			counts.NDASigned++
		}
		if status == invdomain.StatusBidReceived {
			counts.BidsReceived++
		}
	}
	return counts
}

// RevenueTrend buckets closed-won revenue by the month the deal was last
// updated, for the trailing 12 calendar months including the current one.
func RevenueTrend(deals []repository.Deal, now time.Time) []MonthRevenue {
	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[monthKey]int64)
	for _, d := range deals {
		if dealdomain.Status(d.Status) != dealdomain.StatusClosedWon {
			continue
		}
		key := monthKey{d.UpdatedAt.Year(), d.UpdatedAt.Month()}
		buckets[key] += dealValueCents(d)
	}

	trend := make([]MonthRevenue, 0, 12)
	for i := 11; i >= 0; i-- {
		m := now.AddDate(0, -i, -now.Day()+1)
		key := monthKey{m.Year(), m.Month()}
		trend = append(trend, MonthRevenue{
			Label:        fmt.Sprintf("%s %02d", germanShortMonths[m.Month()], m.Year()%100),
			RevenueCents: buckets[key],
		})
	}
	return trend
}

func groupHistory(history []repository.HistoryEntry) map[uuid.UUID][]repository.HistoryEntry {
	byDeal := make(map[uuid.UUID][]repository.HistoryEntry)
	for _, e := range history {
		byDeal[e.DealID] = append(byDeal[e.DealID], e)
	}
	for _, entries := range byDeal {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].EnteredAt.Before(entries[j].EnteredAt)
		})
	}
	return byDeal
}

func firstEntryWithStage(entries []repository.HistoryEntry, stage dealdomain.Stage) (repository.HistoryEntry, bool) {
	for _, e := range entries {
		if dealdomain.Stage(e.Stage) == stage {
			return e, true
		}
	}
	return repository.HistoryEntry{}, false
}

package service

import (
	"testing"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/repository"

	"github.com/google/uuid"
)

func cents(v int64) *int64 { return &v }
func prob(v float64) *float64 { return &v }
func at(s string) time.Time { t, _ := time.Parse(time.RFC3339, s); return t }
func atPtr(s string) *time.Time { t := at(s); return &t }

func openDeal(valueCents int64, p *float64) repository.Deal {
	return repository.Deal{
		ID: uuid.New(), Stage: "MARKETING", Status: "ACTIVE",
		ExpectedValueCents: cents(valueCents), Probability: p,
	}
}

func TestWeightedPipelineValue(t *testing.T) {
	deals := []repository.Deal{
		openDeal(1_000_000, prob(0.5)),
		openDeal(2_000_000, nil), // missing probability counts as zero
		{ID: uuid.New(), Stage: "MARKETING", Status: "ON_HOLD", ExpectedValueCents: cents(9_000_000), Probability: prob(1)},
		{ID: uuid.New(), Stage: "ARCHIVED", Status: "ACTIVE", ExpectedValueCents: cents(9_000_000), Probability: prob(1)},
		{ID: uuid.New(), Stage: "CLOSING", Status: "CLOSED_WON", ExpectedValueCents: cents(9_000_000), Probability: prob(1)},
	}

	if got := WeightedPipelineValue(deals); got != 500_000 {
		t.Fatalf("WeightedPipelineValue = %d, want 500000", got)
	}
}

func TestWeightedPipelinePrefersSuccessFee(t *testing.T) {
	d := openDeal(1_000_000, prob(1))
	d.FeeSuccessCents = cents(300_000)

	if got := WeightedPipelineValue([]repository.Deal{d}); got != 300_000 {
		t.Fatalf("WeightedPipelineValue = %d, want 300000", got)
	}
}

func TestBookedRevenue(t *testing.T) {
	deals := []repository.Deal{
		{ID: uuid.New(), Stage: "CLOSING", Status: "CLOSED_WON", FeeSuccessCents: cents(400_000)},
		{ID: uuid.New(), Stage: "CLOSING", Status: "CLOSED_WON", ExpectedValueCents: cents(100_000)},
		{ID: uuid.New(), Stage: "CLOSING", Status: "CLOSED_LOST", FeeSuccessCents: cents(999_999)},
		openDeal(5_000_000, prob(0.9)),
	}

	if got := BookedRevenue(deals); got != 500_000 {
		t.Fatalf("BookedRevenue = %d, want 500000", got)
	}
}

func TestAverageMandateDurationKickoffToClosing(t *testing.T) {
	dealID := uuid.New()
	deals := []repository.Deal{{
		ID: dealID, Stage: "CLOSING", Status: "CLOSED_WON",
		CreatedAt: at("2025-01-01T00:00:00Z"), UpdatedAt: at("2025-12-01T00:00:00Z"),
	}}
	history := []repository.HistoryEntry{
		{DealID: dealID, Stage: "PITCH", EnteredAt: at("2025-01-01T00:00:00Z")},
		{DealID: dealID, Stage: "KICKOFF", EnteredAt: at("2025-02-01T00:00:00Z")},
		{DealID: dealID, Stage: "CLOSING", EnteredAt: at("2025-03-03T00:00:00Z")},
	}

	if got := AverageMandateDuration(deals, history); got != 30 {
		t.Fatalf("AverageMandateDuration = %v, want 30", got)
	}
}

func TestAverageMandateDurationFallsBackWithoutMilestones(t *testing.T) {
	dealID := uuid.New()
	deals := []repository.Deal{{
		ID: dealID, Stage: "NEGOTIATION", Status: "CLOSED_WON",
		CreatedAt: at("2025-01-01T00:00:00Z"), UpdatedAt: at("2025-06-01T00:00:00Z"),
	}}
	// No KICKOFF or CLOSING entry: createdAt to last entry.
	history := []repository.HistoryEntry{
		{DealID: dealID, Stage: "PITCH", EnteredAt: at("2025-01-01T00:00:00Z")},
		{DealID: dealID, Stage: "NEGOTIATION", EnteredAt: at("2025-01-11T00:00:00Z")},
	}

	if got := AverageMandateDuration(deals, history); got != 10 {
		t.Fatalf("AverageMandateDuration = %v, want 10", got)
	}
}

func TestAverageMandateDurationZeroWithoutClosedWon(t *testing.T) {
	deals := []repository.Deal{openDeal(1_000_000, prob(0.5))}

	if got := AverageMandateDuration(deals, nil); got != 0 {
		t.Fatalf("AverageMandateDuration = %v, want 0", got)
	}
}

func TestNDAConversionRate(t *testing.T) {
	relations := []repository.Relation{
		{DealID: uuid.New(), Status: "LONGLIST"},  // pre-outreach, ignored
		{DealID: uuid.New(), Status: "SHORTLIST"}, // pre-outreach, ignored
		{DealID: uuid.New(), Status: "CONTACTED"},
		{DealID: uuid.New(), Status: "NDA_SENT"},
		{DealID: uuid.New(), Status: "IM_SENT"},
		{DealID: uuid.New(), Status: "DROPPED", NDASignedAt: atPtr("2025-04-01T00:00:00Z")},
	}

	// 2 of 4 contacted got past the NDA.
	if got := NDAConversionRate(relations); got != 50.0 {
		t.Fatalf("NDAConversionRate = %v, want 50.0", got)
	}
}

func TestNDAConversionRateOneDecimal(t *testing.T) {
	relations := []repository.Relation{
		{DealID: uuid.New(), Status: "NDA_SIGNED"},
		{DealID: uuid.New(), Status: "CONTACTED"},
		{DealID: uuid.New(), Status: "CONTACTED"},
	}

	if got := NDAConversionRate(relations); got != 33.3 {
		t.Fatalf("NDAConversionRate = %v, want 33.3", got)
	}
}

func TestNDAConversionRateZeroWithoutContacts(t *testing.T) {
	relations := []repository.Relation{
		{DealID: uuid.New(), Status: "LONGLIST"},
	}

	if got := NDAConversionRate(relations); got != 0 {
		t.Fatalf("NDAConversionRate = %v, want 0", got)
	}
}

func TestFunnelCountsIndependentMilestones(t *testing.T) {
	open := openDeal(1_000_000, prob(0.5))
	won := repository.Deal{ID: uuid.New(), Stage: "CLOSING", Status: "CLOSED_WON"}
	archived := repository.Deal{ID: uuid.New(), Stage: "ARCHIVED", Status: "ACTIVE"}
	deals := []repository.Deal{open, won, archived}

	relations := []repository.Relation{
		{DealID: open.ID, Status: "LONGLIST"},
		{DealID: open.ID, Status: "CONTACTED"},
		{DealID: open.ID, Status: "BID_RECEIVED"},
		{DealID: archived.ID, Status: "BID_RECEIVED"}, // closed-out deal, ignored
	}

	counts := Funnel(deals, relations)
	want := FunnelCounts{Longlist: 3, Contacted: 2, NDASigned: 1, BidsReceived: 1, Closing: 1}
	if counts != want {
		t.Fatalf("Funnel = %+v, want %+v", counts, want)
	}
}

func TestRevenueTrendTrailingTwelveMonths(t *testing.T) {
	now := at("2026-02-15T12:00:00Z")
	deals := []repository.Deal{
		{ID: uuid.New(), Status: "CLOSED_WON", FeeSuccessCents: cents(250_000), UpdatedAt: at("2026-01-20T00:00:00Z")},
		{ID: uuid.New(), Status: "CLOSED_WON", FeeSuccessCents: cents(100_000), UpdatedAt: at("2026-01-05T00:00:00Z")},
		{ID: uuid.New(), Status: "CLOSED_WON", FeeSuccessCents: cents(999_999), UpdatedAt: at("2025-01-01T00:00:00Z")}, // 13 months back
		{ID: uuid.New(), Status: "ACTIVE", Stage: "MARKETING", FeeSuccessCents: cents(999_999), UpdatedAt: at("2026-01-10T00:00:00Z")},
	}

	trend := RevenueTrend(deals, now)
	if len(trend) != 12 {
		t.Fatalf("expected 12 months, got %d", len(trend))
	}
	if trend[0].Label != "Mär 25" {
		t.Fatalf("first label = %q, want \"Mär 25\"", trend[0].Label)
	}
	if trend[11].Label != "Feb 26" {
		t.Fatalf("last label = %q, want \"Feb 26\"", trend[11].Label)
	}
	if trend[10].RevenueCents != 350_000 {
		t.Fatalf("Jan 26 revenue = %d, want 350000", trend[10].RevenueCents)
	}
	for i, p := range trend[:10] {
		if p.RevenueCents != 0 {
			t.Fatalf("month %d (%s) revenue = %d, want 0", i, p.Label, p.RevenueCents)
		}
	}
}

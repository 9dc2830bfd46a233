package domain

import "testing"

func TestIsKnownStage(t *testing.T) {
	for _, stage := range AllStages {
		if !IsKnownStage(stage) {
			t.Fatalf("stage %s should be known", stage)
		}
	}
	for _, bad := range []Stage{"", "pitch", "SIGNING"} {
		if IsKnownStage(bad) {
			t.Fatalf("stage %q should be unknown", bad)
		}
	}
}

func TestIsOpen(t *testing.T) {
	cases := []struct {
		status Status
		stage  Stage
		want   bool
	}{
		{StatusLead, StagePitch, true},
		{StatusActive, StageDueDiligence, true},
		{StatusActive, StageArchived, false},
		{StatusLead, StageArchived, false},
		{StatusOnHold, StageMarketing, false},
		{StatusClosedWon, StageClosing, false},
		{StatusClosedLost, StagePitch, false},
	}
	for _, tc := range cases {
		if got := IsOpen(tc.status, tc.stage); got != tc.want {
			t.Fatalf("IsOpen(%s, %s) = %v, want %v", tc.status, tc.stage, got, tc.want)
		}
	}
}

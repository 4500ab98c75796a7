package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"acknowledge a new request", StatusNoResponse, StatusAcknowledged, true},
		{"close a new request directly", StatusNoResponse, StatusClosedFulfilled, true},
		{"appeal without acknowledgement", StatusNoResponse, StatusAppealed, true},
		{"close after acknowledgement", StatusAcknowledged, StatusClosedDenied, true},
		{"sue after appeal", StatusAppealed, StatusSued, true},
		{"no reopening a closed request", StatusClosedFulfilled, StatusAcknowledged, false},
		{"no un-acknowledging", StatusAcknowledged, StatusNoResponse, false},
		{"no suing without appeal", StatusAcknowledged, StatusSued, false},
		{"sued is final", StatusSued, StatusAppealed, false},
		{"unknown status goes nowhere", Status("bogus"), StatusAcknowledged, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{
		StatusClosedFulfilled, StatusClosedRedacted, StatusClosedExcessFee,
		StatusClosedDenied, StatusClosedNoRecords, StatusSued,
	} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusNoResponse, StatusAcknowledged, StatusAppealed} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(StatusAcknowledged) {
		t.Error("acknowledged should be valid")
	}
	if ValidStatus(Status("resolved")) {
		t.Error("unknown value should be invalid")
	}
}

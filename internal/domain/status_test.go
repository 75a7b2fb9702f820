package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want StopStatus
		ok   bool
	}{
		{"confirmed", StatusConfirmed, true},
		{"Booked", StatusConfirmed, true},
		{"hold", StatusHold, true},
		{"hold3", StatusHold, true},
		{"negotiating", StatusHold, true},
		{"suggested", StatusPotential, true},
		{" potential ", StatusPotential, true},
		{"canceled", StatusCancelled, true},
		{"something-else", StatusPotential, false},
		{"", StatusPotential, false},
	}

	for _, tc := range cases {
		got, ok := NormalizeStatus(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeStatus(%q) = (%s, %v), want (%s, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStatusMutable(t *testing.T) {
	if StatusConfirmed.Mutable() {
		t.Fatal("confirmed stops must be immutable")
	}
	for _, s := range []StopStatus{StatusHold, StatusPotential, StatusCancelled} {
		if !s.Mutable() {
			t.Fatalf("%s should be mutable", s)
		}
	}
}

package common

import "testing"

func TestHasAny(t *testing.T) {
	if !HasAny("Patchy Rain nearby", "snow", "rain") {
		t.Fatal("expected case-insensitive match")
	}
	if HasAny("Sunny", "cloud", "") {
		t.Fatal("unexpected match")
	}
	if HasAny("anything") {
		t.Fatal("no substrings must never match")
	}
}

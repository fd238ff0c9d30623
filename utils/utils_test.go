package utils

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "SELECT", 6},
		{"SELECT", "SELECT", 0},
		{"SELCT", "SELECT", 1},
		{"SLECET", "SELECT", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosestMatch(t *testing.T) {
	keywords := []string{"SELECT", "INSERT", "UPDATE", "DELETE"}

	if got, ok := ClosestMatch("SELCT", keywords, 2); !ok || got != "SELECT" {
		t.Fatalf("ClosestMatch(SELCT) = %q, %v", got, ok)
	}
	if got, ok := ClosestMatch("UPDAT", keywords, 2); !ok || got != "UPDATE" {
		t.Fatalf("ClosestMatch(UPDAT) = %q, %v", got, ok)
	}
	if got, ok := ClosestMatch("FOO", keywords, 2); ok {
		t.Fatalf("ClosestMatch(FOO) = %q, want no match", got)
	}
}

func TestMaskAndFirstNonEmpty(t *testing.T) {
	if got := Mask("ñandú"); got != "*****" {
		t.Fatalf("Mask = %q", got)
	}
	if got := Mask(""); got != "" {
		t.Fatalf("Mask(empty) = %q", got)
	}
	if got := FirstNonEmpty("  ", "", "Ana", "Luis"); got != "Ana" {
		t.Fatalf("FirstNonEmpty = %q", got)
	}
	if !ContainsString([]string{"memory", "redis"}, "redis") {
		t.Fatalf("ContainsString missed redis")
	}
}

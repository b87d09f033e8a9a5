package jobid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !strings.HasPrefix(id, "job_") {
		t.Errorf("New() = %q, want job_ prefix", id)
	}
	if id != strings.ToLower(id) {
		t.Errorf("New() = %q, want lowercase", id)
	}
	if !IsValid(id) {
		t.Errorf("New() produced an invalid id %q", id)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"generated id", New(), true},
		{"missing prefix", "01hgw2x5k9fjq3m7v8n1p4r6t2", false},
		{"wrong prefix", "med_01hgw2x5k9fjq3m7v8n1p4r6t2", false},
		{"empty", "", false},
		{"prefix only", "job_", false},
		{"garbage payload", "job_not-a-ulid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.value); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	id := New()
	parsed, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", id, err)
	}
	if got := "job_" + strings.ToLower(parsed.String()); got != id {
		t.Errorf("round trip = %q, want %q", got, id)
	}
}

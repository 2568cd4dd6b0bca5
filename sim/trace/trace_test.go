package trace

import (
	"testing"
)

func TestTrace_RecordQuery_AppendsRecord(t *testing.T) {
	// GIVEN an empty trace
	tr := NewTrace()

	// WHEN a collision record is recorded
	tr.RecordQuery(QueryRecord{
		Step:     1,
		Prefix:   "",
		Replies:  3,
		Outcome:  "collision",
		Resolved: -1,
		Children: []string{"0000000", "0000001"},
	})

	// THEN the trace contains one record and nothing is marked identified
	if len(tr.Queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(tr.Queries))
	}
	if tr.Queries[0].Replies != 3 {
		t.Errorf("expected 3 replies, got %d", tr.Queries[0].Replies)
	}
	if !tr.Resolved.IsEmpty() {
		t.Errorf("expected no identified tags, got %v", tr.Resolved.ToArray())
	}
}

func TestTrace_RecordQuery_TracksResolvedIndex(t *testing.T) {
	// GIVEN a trace
	tr := NewTrace()

	// WHEN two singleton responses are recorded
	tr.RecordQuery(QueryRecord{Step: 1, Prefix: "1", Replies: 1, Outcome: "success", Resolved: 4})
	tr.RecordQuery(QueryRecord{Step: 2, Prefix: "0", Replies: 1, Outcome: "success", Resolved: 0})

	// THEN both indices are in the resolved set
	if !tr.Resolved.Contains(4) || !tr.Resolved.Contains(0) {
		t.Errorf("expected {0, 4} resolved, got %v", tr.Resolved.ToArray())
	}
	if tr.Duplicates != 0 {
		t.Errorf("expected no duplicates, got %d", tr.Duplicates)
	}
}

func TestTrace_RecordQuery_SameIndexTwice_CountsDuplicate(t *testing.T) {
	// GIVEN a trace that already identified index 2
	tr := NewTrace()
	tr.RecordQuery(QueryRecord{Step: 1, Outcome: "success", Replies: 1, Resolved: 2})

	// WHEN index 2 is identified again
	tr.RecordQuery(QueryRecord{Step: 2, Outcome: "success", Replies: 1, Resolved: 2})

	// THEN the duplicate is counted and cardinality stays 1
	if tr.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", tr.Duplicates)
	}
	if tr.Resolved.GetCardinality() != 1 {
		t.Errorf("expected cardinality 1, got %d", tr.Resolved.GetCardinality())
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"queries", true},
		{"", true},
		{"decisions", false},
		{"all", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestTraceLevel_Enabled(t *testing.T) {
	if TraceLevelNone.Enabled() {
		t.Error("none must not enable recording")
	}
	if TraceLevel("").Enabled() {
		t.Error("empty level must not enable recording")
	}
	if !TraceLevelQueries.Enabled() {
		t.Error("queries must enable recording")
	}
}

package trace

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// TraceLevel controls the verbosity of query tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelQueries captures every query and its outcome.
	TraceLevelQueries TraceLevel = "queries"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelQueries: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether level asks for any recording.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelQueries
}

// Trace collects query records during one resolution run.
// Resolved holds the population indices identified so far; an index
// identified twice is counted in Duplicates instead.
type Trace struct {
	Queries    []QueryRecord
	Resolved   *roaring.Bitmap
	Duplicates int
}

// NewTrace creates a Trace ready for recording.
func NewTrace() *Trace {
	return &Trace{
		Queries:  make([]QueryRecord, 0),
		Resolved: roaring.New(),
	}
}

// RecordQuery appends a query record and notes the tag it identified, if any.
func (t *Trace) RecordQuery(record QueryRecord) {
	t.Queries = append(t.Queries, record)
	if record.Resolved < 0 {
		return
	}
	if !t.Resolved.CheckedAdd(uint32(record.Resolved)) {
		t.Duplicates++
	}
}

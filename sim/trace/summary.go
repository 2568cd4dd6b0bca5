package trace

import "github.com/RoaringBitmap/roaring/v2"

// TraceSummary aggregates statistics from a Trace.
type TraceSummary struct {
	TotalQueries   int
	IdleCount      int
	SuccessCount   int
	CollisionCount int
	MaxPrefixLen   int
	MeanReplies    float64
	DepthHistogram map[int]int // prefix length → number of queries at that length
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *Trace) *TraceSummary {
	summary := &TraceSummary{
		DepthHistogram: make(map[int]int),
	}
	if t == nil {
		return summary
	}

	summary.TotalQueries = len(t.Queries)
	totalReplies := 0
	for _, q := range t.Queries {
		switch q.Outcome {
		case "idle":
			summary.IdleCount++
		case "success":
			summary.SuccessCount++
		case "collision":
			summary.CollisionCount++
		}
		depth := len(q.Prefix)
		summary.DepthHistogram[depth]++
		if depth > summary.MaxPrefixLen {
			summary.MaxPrefixLen = depth
		}
		totalReplies += q.Replies
	}
	if summary.TotalQueries > 0 {
		summary.MeanReplies = float64(totalReplies) / float64(summary.TotalQueries)
	}

	return summary
}

// Coverage reports how the identified tags relate to a population of size n.
type Coverage struct {
	Identified int
	Missing    []uint32 // population indices never identified
	Duplicates int
}

// Complete is true when every tag was identified exactly once.
func (c Coverage) Complete() bool {
	return len(c.Missing) == 0 && c.Duplicates == 0
}

// CoverageOf compares the trace's identified set against indices [0, n).
func CoverageOf(t *Trace, n int) Coverage {
	all := roaring.New()
	all.AddRange(0, uint64(n))
	if t == nil {
		return Coverage{Missing: all.ToArray()}
	}
	missing := roaring.AndNot(all, t.Resolved)
	return Coverage{
		Identified: int(t.Resolved.GetCardinality()),
		Missing:    missing.ToArray(),
		Duplicates: t.Duplicates,
	}
}

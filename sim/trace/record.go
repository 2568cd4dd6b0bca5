// Package trace provides per-query recording of a Query Tree resolution run.
// It has no dependencies on sim/ and stores pure data types.
package trace

// QueryRecord captures a single reader query and how it was resolved.
type QueryRecord struct {
	Step     int      `json:"step"`     // 1-based query number within the run
	Prefix   string   `json:"prefix"`   // bits broadcast; "" is the root
	Replies  int      `json:"replies"`  // tags whose identifier matched Prefix
	Outcome  string   `json:"outcome"`  // idle, success or collision
	Resolved int      `json:"resolved"` // population index identified by this query, -1 if none
	Children []string `json:"children,omitempty"`
}

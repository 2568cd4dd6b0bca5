// Implements the Frontier, which holds the query prefixes not yet broadcast.

package sim

import (
	"fmt"
	"strings"
)

// Frontier is a LIFO stack of unexplored trie nodes.
// Every prefix on it was created by a collision split and has not been
// queried yet. Popping from the top yields a depth-first traversal.
type Frontier struct {
	stack []Prefix
}

// NewFrontier returns a frontier seeded with the root prefix.
func NewFrontier() *Frontier {
	return &Frontier{stack: []Prefix{Root}}
}

// Push places p on top of the frontier.
func (f *Frontier) Push(p Prefix) {
	f.stack = append(f.stack, p)
}

// Pop removes and returns the most recently pushed prefix.
// ok is false when the frontier is empty.
func (f *Frontier) Pop() (p Prefix, ok bool) {
	n := len(f.stack)
	if n == 0 {
		return "", false
	}
	p = f.stack[n-1]
	f.stack = f.stack[:n-1]
	return p, true
}

// Peek returns the top prefix without removing it.
func (f *Frontier) Peek() (Prefix, bool) {
	if len(f.stack) == 0 {
		return "", false
	}
	return f.stack[len(f.stack)-1], true
}

// Len returns the number of pending prefixes.
func (f *Frontier) Len() int {
	return len(f.stack)
}

// Empty reports whether every pending prefix has been queried.
func (f *Frontier) Empty() bool {
	return len(f.stack) == 0
}

func (f *Frontier) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range f.stack {
		sb.WriteString(fmt.Sprint(p))
		if i < len(f.stack)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

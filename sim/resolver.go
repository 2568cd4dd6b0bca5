// Collision resolution: find where colliding identifiers first disagree and
// split the query prefix there.

package sim

import "fmt"

// divergence returns the first bit in [from, last) where a and b differ,
// or last if they agree on the whole range.
func divergence(a, b Identifier, from, last int) int {
	for i := from; i < last; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return last
}

// SplitIndex returns the earliest bit position at or after len(p) where the
// members of response disagree. The last member is the reference.
// response must hold at least two distinct identifiers matching p.
func SplitIndex(p Prefix, response []Identifier) int {
	return SplitIndexWithReference(p, response, len(response)-1)
}

// SplitIndexWithReference is SplitIndex comparing every member against
// response[ref]. The result does not depend on ref: two members that differ
// before the returned index would force one of them to differ from the
// reference earlier still.
func SplitIndexWithReference(p Prefix, response []Identifier, ref int) int {
	if len(response) < 2 {
		panic(fmt.Sprintf("SplitIndex: need a collision (>= 2 replies), got %d", len(response)))
	}
	reference := response[ref]
	last := reference.Len()
	for i, id := range response {
		if i == ref {
			continue
		}
		// Passing the running minimum as the bound never widens the scan.
		last = divergence(id, reference, p.Len(), last)
	}
	if last == reference.Len() {
		panic(fmt.Sprintf("SplitIndex: replies to %v never diverge; population has duplicates", p))
	}
	return last
}

// Split resolves a collision on p into the two child prefixes
// p+run+"0" and p+run+"1", where run is the bit run every member of
// response shares after p. Each member matches exactly one child.
func Split(p Prefix, response []Identifier) (zero, one Prefix) {
	return SplitWithReference(p, response, len(response)-1)
}

// SplitWithReference is Split using response[ref] as the reference.
func SplitWithReference(p Prefix, response []Identifier, ref int) (zero, one Prefix) {
	split := SplitIndexWithReference(p, response, ref)
	run := string(response[ref][p.Len():split])
	base := p.Extend(run)
	return base.Extend("0"), base.Extend("1")
}

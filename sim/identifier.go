// Tag identifiers, query prefixes, and the validated tag population.

package sim

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPopulation is wrapped by every structural validation failure
// reported by NewPopulation and ParseIdentifier.
var ErrInvalidPopulation = errors.New("invalid tag population")

// Identifier is a tag's fixed-length address, written as a string of '0' and '1'.
type Identifier string

// Prefix is a query bit string. The empty Prefix is the trie root and matches every tag.
type Prefix string

// Root is the prefix the reader broadcasts first.
const Root Prefix = ""

// Len returns the number of bits in the identifier.
func (id Identifier) Len() int { return len(id) }

// HasPrefix reports whether the identifier starts with p.
// Identifiers shorter than p never match.
func (id Identifier) HasPrefix(p Prefix) bool {
	return strings.HasPrefix(string(id), string(p))
}

// Len returns the number of bits in the prefix.
func (p Prefix) Len() int { return len(p) }

// Extend returns p followed by bits.
func (p Prefix) Extend(bits string) Prefix { return p + Prefix(bits) }

func (p Prefix) String() string {
	if p == Root {
		return "ε"
	}
	return string(p)
}

// ParseIdentifier validates s as a non-empty binary string.
func ParseIdentifier(s string) (Identifier, error) {
	if s == "" {
		return "", fmt.Errorf("%w: zero-length identifier", ErrInvalidPopulation)
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return "", fmt.Errorf("%w: identifier %q has non-binary character %q at bit %d", ErrInvalidPopulation, s, s[i], i)
		}
	}
	return Identifier(s), nil
}

// FormatIdentifier renders v as a zero-padded identifier of the given width.
// Bits of v above the width are dropped.
func FormatIdentifier(v uint64, bits int) Identifier {
	if bits <= 0 || bits > 64 {
		panic(fmt.Sprintf("FormatIdentifier: bits must be in [1, 64], got %d", bits))
	}
	if bits < 64 {
		v &= (uint64(1) << bits) - 1
	}
	return Identifier(fmt.Sprintf("%0*b", bits, v))
}

// Population is an immutable, validated set of tags in a fixed order.
// The order is the order the tags reply in and drives which tag is used
// as the reference during collision resolution.
type Population struct {
	ids   []Identifier
	bits  int
	index map[Identifier]int
}

// NewPopulation validates ids and returns them as a Population.
// All identifiers must be non-empty binary strings of one length, and no
// two may be equal: duplicates can never be split apart by any prefix.
// An empty slice yields an empty population.
func NewPopulation(ids []Identifier) (*Population, error) {
	p := &Population{
		ids:   make([]Identifier, len(ids)),
		index: make(map[Identifier]int, len(ids)),
	}
	for i, id := range ids {
		if _, err := ParseIdentifier(string(id)); err != nil {
			return nil, fmt.Errorf("tag %d: %w", i, err)
		}
		if i == 0 {
			p.bits = id.Len()
		} else if id.Len() != p.bits {
			return nil, fmt.Errorf("%w: tag %d has %d bits, want %d", ErrInvalidPopulation, i, id.Len(), p.bits)
		}
		if prev, dup := p.index[id]; dup {
			return nil, fmt.Errorf("%w: tag %d duplicates tag %d (%s)", ErrInvalidPopulation, i, prev, id)
		}
		p.index[id] = i
		p.ids[i] = id
	}
	return p, nil
}

// ParsePopulation is NewPopulation over raw strings.
func ParsePopulation(raw []string) (*Population, error) {
	ids := make([]Identifier, len(raw))
	for i, s := range raw {
		ids[i] = Identifier(s)
	}
	return NewPopulation(ids)
}

// Len returns the number of tags.
func (p *Population) Len() int { return len(p.ids) }

// Bits returns the identifier length, or 0 for an empty population.
func (p *Population) Bits() int { return p.bits }

// At returns the i-th tag.
func (p *Population) At(i int) Identifier { return p.ids[i] }

// IndexOf returns the position of id in the population.
func (p *Population) IndexOf(id Identifier) (int, bool) {
	i, ok := p.index[id]
	return i, ok
}

// Identifiers returns a copy of the tags in population order.
func (p *Population) Identifiers() []Identifier {
	out := make([]Identifier, len(p.ids))
	copy(out, p.ids)
	return out
}

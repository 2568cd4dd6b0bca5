// Seeded random streams for population generation.

package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a simulation.
// The same key and configuration reproduce the same tags and query counts.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemPopulation names the stream a single `run` draws its tags from.
// It is seeded with the master seed itself.
const SubsystemPopulation = "population"

// TrialSubsystem names the stream of one sweep trial.
func TrialSubsystem(tags, trial int) string {
	return fmt.Sprintf("trial_%d_%d", tags, trial)
}

// PartitionedRNG hands out one independent *rand.Rand per named subsystem,
// so drawing from one stream never shifts another.
// SubsystemPopulation is seeded with the key; every other name with
// key XOR fnv1a64(name).
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls with one name return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemPopulation {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// TrialSeed returns a seed for one sweep trial. The value depends only on
// the key, tags and trial, so trials can later run on any goroutine.
func (p *PartitionedRNG) TrialSeed(tags, trial int) int64 {
	return p.ForSubsystem(TrialSubsystem(tags, trial)).Int63()
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

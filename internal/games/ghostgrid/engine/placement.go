package engine

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// Rand is the randomness the engine consumes. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Constraint accepts or rejects a candidate position.
type Constraint func(core.Pos) bool

// Place rejection-samples a uniformly random cell of a size x size grid
// until every constraint accepts it. It gives up after attempts tries and
// reports false; callers skip that placement.
func Place(rng Rand, size, attempts int, constraints ...Constraint) (core.Pos, bool) {
	if size <= 0 {
		return core.Pos{}, false
	}
	for range attempts {
		p := core.P(rng.Intn(size), rng.Intn(size))
		if accepts(p, constraints) {
			return p, true
		}
	}
	return core.Pos{}, false
}

func accepts(p core.Pos, constraints []Constraint) bool {
	for _, c := range constraints {
		if !c(p) {
			return false
		}
	}
	return true
}

// NotOn rejects the given positions.
func NotOn(ps ...core.Pos) Constraint {
	return func(p core.Pos) bool {
		for _, q := range ps {
			if p == q {
				return false
			}
		}
		return true
	}
}

// NotIn rejects members of set.
func NotIn(set mapset.Set[core.Pos]) Constraint {
	return func(p core.Pos) bool {
		return !set.Has(p)
	}
}

// MinDistance rejects cells closer than d (Euclidean) to from.
func MinDistance(from core.Pos, d float64) Constraint {
	return func(p core.Pos) bool {
		return p.Dist(from) >= d
	}
}

// MinManhattan rejects cells closer than d steps to from.
func MinManhattan(from core.Pos, d int) Constraint {
	return func(p core.Pos) bool {
		return p.Manhattan(from) >= d
	}
}

// Reachable reports whether to can be reached from from by orthogonal steps
// that avoid blocked cells.
func Reachable(size int, from, to core.Pos, blocked func(core.Pos) bool) bool {
	if from == to {
		return true
	}
	visited := mapset.New[core.Pos]()
	visited.Put(from)
	queue := []core.Pos{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors4(size) {
			if visited.Has(n) || blocked(n) {
				continue
			}
			if n == to {
				return true
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}
	return false
}

package engine

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

func TestPlaceRespectsConstraints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 200 {
		p, ok := Place(rng, 5, 100, NotOn(Origin), MinDistance(Origin, 3))
		if !ok {
			t.Fatal("Place() failed on a satisfiable constraint")
		}
		if !p.InBounds(5) {
			t.Errorf("Place() = %v, out of bounds", p)
		}
		if p.Dist(Origin) < 3 {
			t.Errorf("Place() = %v, closer than 3 to origin", p)
		}
	}
}

func TestPlaceGivesUp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	never := func(core.Pos) bool { return false }

	if _, ok := Place(rng, 4, 50, never); ok {
		t.Error("Place() = ok, expected failure")
	}
	if _, ok := Place(rng, 0, 50); ok {
		t.Error("Place() on empty grid = ok, expected failure")
	}
}

func TestReachable(t *testing.T) {
	wall := map[core.Pos]bool{core.P(1, 0): true, core.P(1, 1): true, core.P(1, 2): true}
	blocked := func(p core.Pos) bool { return wall[p] }

	if Reachable(3, core.P(0, 0), core.P(2, 0), blocked) {
		t.Error("Reachable() through a full wall = true, expected false")
	}

	delete(wall, core.P(1, 2))
	if !Reachable(3, core.P(0, 0), core.P(2, 0), blocked) {
		t.Error("Reachable() with a gap = false, expected true")
	}
}

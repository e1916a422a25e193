package game

import (
	"math/rand"
	"testing"
)

// newBoard builds a game with a hand-placed dog, cows and fences. The
// standard funnel fences are dropped so tests only see what they place.
func newBoard(t *testing.T, dog Dog, cows []Cow, fences ...Point) *Game {
	t.Helper()
	g := New(Options{Rand: rand.New(rand.NewSource(1))})
	g.dog = dog
	g.cows = append([]Cow{}, cows...)
	g.fences = nil
	g.fenceAt = make(map[Point]struct{})
	for _, f := range fences {
		g.addFence(f)
	}
	g.counters = Counters{Remaining: len(g.cows)}
	return g
}

func cow(id, x, y int) Cow { return Cow{ID: id, Point: Point{X: x, Y: y}, Color: "red"} }

func pt(x, y int) Point { return Point{X: x, Y: y} }

func dogAt(x, y int, d Direction) Dog { return Dog{Point: pt(x, y), Direction: d} }

// mustCow returns the cow with the given id or fails the test.
func mustCow(t *testing.T, g *Game, id int) Cow {
	t.Helper()
	idx := g.cowIndex(id)
	if idx < 0 {
		t.Fatalf("cow %d not on board", id)
	}
	return g.cows[idx]
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// checkInvariants asserts the properties that must hold after every command
// on a game built by New.
func checkInvariants(t *testing.T, g *Game) {
	t.Helper()
	c := g.counters
	if c.Remaining+c.Scored+c.Lost != InitialCows {
		t.Fatalf("counters %+v do not sum to %d", c, InitialCows)
	}
	if c.Remaining != len(g.cows) {
		t.Fatalf("remaining %d, live cows %d", c.Remaining, len(g.cows))
	}
	seen := make(map[Point]int)
	for _, cw := range g.cows {
		if other, ok := seen[cw.Point]; ok {
			t.Fatalf("cows %d and %d share %+v", other, cw.ID, cw.Point)
		}
		seen[cw.Point] = cw.ID
		if InPen(cw.Point) || !InBounds(cw.Point) {
			t.Fatalf("cow %d left on %+v", cw.ID, cw.Point)
		}
	}
	if !InBounds(g.dog.Point) {
		t.Fatalf("dog off board at %+v", g.dog.Point)
	}
	if g.fenced(g.dog.Point) {
		t.Fatalf("dog standing on fence %+v", g.dog.Point)
	}
}

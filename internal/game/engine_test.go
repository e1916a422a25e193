package game

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNewStartingLayout(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(42))})

	if g.dog != dogAt(1, 8, South) {
		t.Errorf("dog = %+v, want (1,8) facing south", g.dog)
	}
	if !reflect.DeepEqual(g.fences, initialFences) {
		t.Errorf("fences = %v, want %v", g.fences, initialFences)
	}
	if len(g.cows) != InitialCows {
		t.Fatalf("spawned %d cows, want %d", len(g.cows), InitialCows)
	}
	for i, c := range g.cows {
		if c.ID != i {
			t.Errorf("cow %d has id %d", i, c.ID)
		}
		if c.X < 2 || c.X > 7 || c.Y < 2 || c.Y > 7 {
			t.Errorf("cow %d spawned outside the inner area at %+v", c.ID, c.Point)
		}
		if c.Color != "red" && c.Color != "green" && c.Color != "yellow" {
			t.Errorf("cow %d has colour %q", c.ID, c.Color)
		}
	}
	if len(g.hand) != HandSize {
		t.Errorf("hand size = %d, want %d", len(g.hand), HandSize)
	}
	if g.current != -1 || g.executing {
		t.Errorf("new game should be idle, got current=%d executing=%v", g.current, g.executing)
	}
	if g.State() != "playing" {
		t.Errorf("state = %q", g.State())
	}
	checkInvariants(t, g)
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() Snapshot {
		g := New(Options{Rand: rand.New(rand.NewSource(7))})
		for round := 0; round < 5; round++ {
			for i := 0; i < 3; i++ {
				_, _ = g.SelectCard(i)
			}
			_, _ = g.AddPivot(ActionTurnRight)
			if _, err := g.PlaySequence(); err != nil {
				break
			}
		}
		s := g.Snapshot()
		s.ID = ""
		return s
	}
	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed diverged:\n%+v\n%+v", a, b)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := newBoard(t, dogAt(0, 0, North), []Cow{cow(0, 5, 5)}, pt(3, 3))
	s := g.Snapshot()
	s.Cows[0].X = 9
	s.Fences[0] = pt(0, 0)
	s.Hand[0].Used = true

	if g.cows[0].X != 5 || g.fences[0] != pt(3, 3) || g.hand[0].Used {
		t.Fatal("mutating a snapshot leaked into the game")
	}
}

func TestDirectionTurn(t *testing.T) {
	tests := []struct {
		from     Direction
		quarters int
		want     Direction
	}{
		{North, 1, East},
		{North, 3, West},
		{West, 1, North},
		{South, 2, North},
		{East, -1, North},
	}
	for _, tt := range tests {
		if got := tt.from.Turn(tt.quarters); got != tt.want {
			t.Errorf("%v.Turn(%d) = %v, want %v", tt.from, tt.quarters, got, tt.want)
		}
	}
}

func TestGridQueries(t *testing.T) {
	for _, p := range []Point{pt(8, 8), pt(9, 9), pt(8, 9), pt(9, 8)} {
		if !InPen(p) {
			t.Errorf("%+v should be in the pen", p)
		}
	}
	for _, p := range []Point{pt(7, 8), pt(8, 7), pt(10, 9)} {
		if InPen(p) {
			t.Errorf("%+v should not be in the pen", p)
		}
	}
	for _, p := range []Point{pt(-1, 0), pt(0, -1), pt(10, 0), pt(0, 10)} {
		if InBounds(p) {
			t.Errorf("%+v should be out of bounds", p)
		}
	}
	if chebyshev(pt(0, 0), pt(3, -2)) != 3 || manhattan(pt(0, 0), pt(3, -2)) != 5 {
		t.Error("distance helpers disagree with definitions")
	}
}

package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPlaySequenceLifecycle(t *testing.T) {
	g := newBoard(t, dogAt(1, 8, South), []Cow{cow(0, 8, 1)})
	g.hand[0] = Card{CardType: CardTypes[1]} // Move 2
	_, _ = g.SelectCard(0)
	_, _ = g.AddPivot(ActionTurnLeft)

	var during []Snapshot
	g.observer = func(e Event) {
		if e.Kind == EventEntryStarted {
			during = append(during, g.Snapshot())
		}
	}
	events, err := g.PlaySequence()
	if err != nil {
		t.Fatalf("PlaySequence: %v", err)
	}

	if g.dog != dogAt(1, 6, East) {
		t.Errorf("dog = %+v, want (1,6) facing east", g.dog)
	}
	if len(during) != 2 || !during[0].Executing || during[0].CurrentIndex != 0 || during[1].CurrentIndex != 1 {
		t.Errorf("observed executing snapshots = %+v", during)
	}
	if g.executing || g.current != -1 || len(g.sequence) != 0 {
		t.Errorf("controller not back to idle: executing=%v current=%d seq=%v", g.executing, g.current, g.sequence)
	}
	if g.rounds != 1 {
		t.Errorf("rounds = %d", g.rounds)
	}
	for i, c := range g.hand {
		if c.Used {
			t.Errorf("card %d used in the freshly dealt hand", i)
		}
	}
	if events[0].Kind != EventSequenceStarted || events[len(events)-1].Kind != EventHandDealt {
		t.Errorf("events = %v", kinds(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("event sequence numbers not increasing: %v", events)
		}
	}
}

func TestObserverCannotReenter(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(9))})
	_, _ = g.SelectCard(0)

	var errs []error
	g.observer = func(e Event) {
		if e.Kind != EventEntryStarted {
			return
		}
		_, err1 := g.SelectCard(1)
		_, err2 := g.PlaySequence()
		_, err3 := g.ClearSequence()
		errs = append(errs, err1, err2, err3)
	}
	if _, err := g.PlaySequence(); err != nil {
		t.Fatal(err)
	}
	if len(errs) != 3 {
		t.Fatalf("observer ran %d times", len(errs)/3)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrExecuting) {
			t.Errorf("re-entrant command: err = %v, want ErrExecuting", err)
		}
	}
}

func TestObserverCommandKeepsOuterEvents(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(4))})

	var inner []Event
	var innerErr error
	g.observer = func(e Event) {
		if e.Kind != EventSequenceChanged || inner != nil {
			return
		}
		inner, innerErr = g.DealNewHand()
	}
	outer, err := g.SelectCard(0)
	if err != nil {
		t.Fatal(err)
	}
	if innerErr != nil {
		t.Fatalf("DealNewHand from observer: %v", innerErr)
	}
	if got := kinds(outer); len(got) != 1 || got[0] != EventSequenceChanged {
		t.Errorf("outer events = %v", got)
	}
	if got := kinds(inner); len(got) != 1 || got[0] != EventHandDealt {
		t.Errorf("inner events = %v", got)
	}
	if len(g.outer) != 0 || g.events != nil {
		t.Errorf("buffers left behind: outer=%d events=%d", len(g.outer), len(g.events))
	}
}

func TestGameOver(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(2))})
	// One cow left, right below the pen with the dog behind it.
	g.cows = []Cow{cow(3, 8, 7)}
	g.counters = Counters{Remaining: 1, Scored: 20, Lost: 4}
	g.dog = dogAt(8, 5, North)
	g.hand[0] = Card{CardType: CardTypes[0]} // Move 1
	_, _ = g.SelectCard(0)

	events, err := g.PlaySequence()
	if err != nil {
		t.Fatal(err)
	}
	if !g.Finished() || g.State() != "finished" {
		t.Fatalf("state = %q, cows = %+v", g.State(), g.cows)
	}
	if g.counters != (Counters{Remaining: 0, Scored: 21, Lost: 4}) {
		t.Errorf("counters = %+v", g.counters)
	}
	var over bool
	for _, e := range events {
		over = over || e.Kind == EventGameOver
	}
	if !over {
		t.Errorf("no game_over event in %v", kinds(events))
	}

	_, _ = g.SelectCard(0)
	if _, err := g.PlaySequence(); !errors.Is(err, ErrGameOver) {
		t.Errorf("play after finish: err = %v", err)
	}
}

// TestInvariantsUnderRandomPlay drives whole games with random commands and
// checks the board after each one.
func TestInvariantsUnderRandomPlay(t *testing.T) {
	pivots := []Action{ActionTurnLeft, ActionTurnRight, ActionTurnAround}
	for seed := int64(1); seed <= 40; seed++ {
		g := New(Options{Rand: rand.New(rand.NewSource(seed))})
		picker := rand.New(rand.NewSource(seed * 31))
		checkInvariants(t, g)

		for round := 0; round < 60 && !g.Finished(); round++ {
			for n := picker.Intn(5) + 1; n > 0; n-- {
				if picker.Intn(4) == 0 {
					_, _ = g.AddPivot(pivots[picker.Intn(len(pivots))])
				} else {
					_, _ = g.SelectCard(picker.Intn(HandSize))
				}
				checkInvariants(t, g)
			}
			if picker.Intn(6) == 0 && len(g.sequence) > 0 {
				_, _ = g.RemoveFromSequence(picker.Intn(len(g.sequence)))
				checkInvariants(t, g)
			}
			if len(g.sequence) == 0 {
				_, _ = g.AddPivot(ActionTurnRight)
			}
			if _, err := g.PlaySequence(); err != nil {
				t.Fatalf("seed %d round %d: %v", seed, round, err)
			}
			checkInvariants(t, g)
		}
	}
}

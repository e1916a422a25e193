// internal/game/engine.go
//
// Core game engine for a single herding session.
// Responsibilities:
//   - Create new games with the fixed starting board (dog, funnel fences, 25 cows).
//   - Own the entity collections and answer position lookups by id or cell.
//   - Produce deep-copy snapshots for renderers and transport layers.
//   - Report the coarse session state: playing → finished.
//
// Notes:
//   - A Game is not safe for concurrent use; callers serialise commands.
//   - All randomness flows through one *rand.Rand so a seed replays a game exactly.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"time"

	"github.com/rs/zerolog"
)

var cowColors = []string{"red", "green", "yellow"}

// Options configures a new game. The zero value is ready to use.
type Options struct {
	// Rand drives spawning, dealing and cow behaviour. Nil means time-seeded.
	Rand *mrand.Rand
	// Logger receives debug traces of engine decisions. Nil disables logging.
	Logger *zerolog.Logger
	// Observer, if set, is invoked synchronously for every emitted event.
	// While a sequence plays, commands from the observer fail with
	// ErrExecuting. Outside a sequence they run, and their events go to
	// their own return value rather than the triggering command's.
	Observer func(Event)
}

// Game holds the state of a single herding session.
type Game struct {
	ID string

	dog      Dog
	cows     []Cow // spawn order == id order; never re-sorted
	fences   []Point
	fenceAt  map[Point]struct{}
	hand     []Card
	sequence []Entry
	counters Counters

	rounds    int
	executing bool
	current   int

	rng      *mrand.Rand
	log      zerolog.Logger
	observer func(Event)
	events   []Event
	outer    [][]Event
	eventSeq int
}

// New constructs a game with the standard starting layout and a fresh hand.
func New(opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	lg := zerolog.Nop()
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	g := &Game{
		ID:      randomID(),
		dog:     Dog{Point: Point{X: 1, Y: 8}, Direction: South},
		fenceAt: make(map[Point]struct{}),
		current: -1,
		rng:     rng,
		log:     lg.With().Str("component", "game").Logger(),
	}
	for _, f := range initialFences {
		g.addFence(f)
	}
	g.spawnCows()
	g.dealHand()
	// Setup events are not part of any command.
	g.events = nil
	g.observer = opts.Observer
	return g
}

// spawnCows places InitialCows cows two cells inside the border, never on the
// dog, in the pen, or on another cow.
func (g *Game) spawnCows() {
	g.cows = make([]Cow, 0, InitialCows)
	for id := 0; id < InitialCows; id++ {
		var p Point
		for {
			p = Point{X: g.rng.Intn(Width-4) + 2, Y: g.rng.Intn(Height-4) + 2}
			if p != g.dog.Point && !InPen(p) && g.cowIndexAt(p) < 0 {
				break
			}
		}
		color := cowColors[g.rng.Intn(len(cowColors))]
		g.cows = append(g.cows, Cow{ID: id, Point: p, Color: color})
	}
	g.counters = Counters{Remaining: len(g.cows)}
}

// cowIndex returns the storage index of the cow with the given id, or -1.
func (g *Game) cowIndex(id int) int {
	for i := range g.cows {
		if g.cows[i].ID == id {
			return i
		}
	}
	return -1
}

// cowIndexAt returns the storage index of the cow standing on p, or -1.
func (g *Game) cowIndexAt(p Point) int {
	for i := range g.cows {
		if g.cows[i].Point == p {
			return i
		}
	}
	return -1
}

// cowIDsWhere snapshots, in storage order, the ids of cows matching keep.
func (g *Game) cowIDsWhere(keep func(Cow) bool) []int {
	var ids []int
	for _, c := range g.cows {
		if keep(c) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Finished reports whether every cow has been scored or lost.
func (g *Game) Finished() bool { return len(g.cows) == 0 }

// State reports a coarse string representation of the session.
func (g *Game) State() string {
	if g.Finished() {
		return "finished"
	}
	return "playing"
}

// Counters returns the current herd totals.
func (g *Game) Counters() Counters { return g.counters }

// Rounds returns the number of sequences played so far.
func (g *Game) Rounds() int { return g.rounds }

// Executing reports whether a sequence is currently being resolved.
func (g *Game) Executing() bool { return g.executing }

// Snapshot returns a deep copy of the observable state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:           g.ID,
		Width:        Width,
		Height:       Height,
		Pen:          Pen,
		Fences:       append([]Point{}, g.fences...),
		Dog:          g.dog,
		Cows:         append([]Cow{}, g.cows...),
		Hand:         append([]Card{}, g.hand...),
		Sequence:     append([]Entry{}, g.sequence...),
		Counters:     g.counters,
		Executing:    g.executing,
		CurrentIndex: g.current,
		Rounds:       g.rounds,
		State:        g.State(),
	}
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

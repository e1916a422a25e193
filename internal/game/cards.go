package game

import "errors"

// HandSize is the number of cards dealt each round.
const HandSize = 7

// CardTypes is the fixed deck catalogue. Weights define a 12-slot draw pool.
var CardTypes = []CardType{
	{Name: "Move 1", Icon: "1️⃣", Action: ActionMove1, Weight: 3},
	{Name: "Move 2", Icon: "2️⃣", Action: ActionMove2, Weight: 3},
	{Name: "Move 3", Icon: "3️⃣", Action: ActionMove3, Weight: 2},
	{Name: "Fence", Icon: "🚧", Action: ActionFence, Weight: 2},
	{Name: "Bark", Icon: "📢", Action: ActionBark, Weight: 2},
}

// Pivots are free turn actions that are never dealt.
var Pivots = map[Action]Entry{
	ActionTurnLeft:   {Name: "Turn Left", Icon: "↶", Action: ActionTurnLeft},
	ActionTurnRight:  {Name: "Turn Right", Icon: "↷", Action: ActionTurnRight},
	ActionTurnAround: {Name: "Turn Around", Icon: "↺", Action: ActionTurnAround},
}

var (
	ErrExecuting     = errors.New("sequence is executing")
	ErrBadIndex      = errors.New("index out of range")
	ErrCardUsed      = errors.New("card already used")
	ErrUnknownPivot  = errors.New("unknown pivot")
	ErrEmptySequence = errors.New("sequence is empty")
	ErrGameOver      = errors.New("game finished")
)

// weightedPool repeats each card type by its weight.
func weightedPool() []CardType {
	var pool []CardType
	for _, ct := range CardTypes {
		for i := 0; i < ct.Weight; i++ {
			pool = append(pool, ct)
		}
	}
	return pool
}

// DealNewHand replaces the hand with HandSize fresh, unused cards.
func (g *Game) DealNewHand() ([]Event, error) {
	if g.executing {
		return nil, ErrExecuting
	}
	g.begin()
	g.dealHand()
	return g.flush(), nil
}

// dealHand draws with replacement; duplicates are expected.
func (g *Game) dealHand() {
	pool := weightedPool()
	g.hand = make([]Card, HandSize)
	for i := range g.hand {
		g.hand[i] = Card{CardType: pool[g.rng.Intn(len(pool))]}
	}
	g.emit(EventHandDealt, 0, HandPayload{Hand: append([]Card{}, g.hand...)})
}

// SelectCard queues hand card i and marks it used.
func (g *Game) SelectCard(i int) ([]Event, error) {
	if g.executing {
		return nil, ErrExecuting
	}
	if i < 0 || i >= len(g.hand) {
		return nil, ErrBadIndex
	}
	if g.hand[i].Used {
		return nil, ErrCardUsed
	}
	g.begin()
	c := &g.hand[i]
	c.Used = true
	g.sequence = append(g.sequence, Entry{Name: c.Name, Icon: c.Icon, Action: c.Action})
	g.emitSequence()
	return g.flush(), nil
}

// AddPivot queues a free turn action.
func (g *Game) AddPivot(a Action) ([]Event, error) {
	if g.executing {
		return nil, ErrExecuting
	}
	p, ok := Pivots[a]
	if !ok {
		return nil, ErrUnknownPivot
	}
	g.begin()
	g.sequence = append(g.sequence, p)
	g.emitSequence()
	return g.flush(), nil
}

// RemoveFromSequence drops queued entry i. Removing a dealt card frees the
// first used hand card with the same name; same-named cards are interchangeable.
func (g *Game) RemoveFromSequence(i int) ([]Event, error) {
	if g.executing {
		return nil, ErrExecuting
	}
	if i < 0 || i >= len(g.sequence) {
		return nil, ErrBadIndex
	}
	g.begin()
	removed := g.sequence[i]
	g.sequence = append(g.sequence[:i], g.sequence[i+1:]...)
	if !removed.Action.IsPivot() {
		for j := range g.hand {
			if g.hand[j].Used && g.hand[j].Name == removed.Name {
				g.hand[j].Used = false
				break
			}
		}
	}
	g.emitSequence()
	return g.flush(), nil
}

// ClearSequence empties the queue and frees every hand card.
func (g *Game) ClearSequence() ([]Event, error) {
	if g.executing {
		return nil, ErrExecuting
	}
	g.begin()
	for j := range g.hand {
		g.hand[j].Used = false
	}
	g.sequence = nil
	g.emitSequence()
	return g.flush(), nil
}

func (g *Game) emitSequence() {
	g.emit(EventSequenceChanged, 0, SequencePayload{Sequence: append([]Entry{}, g.sequence...)})
}

package game

import "time"

// EventKind identifies a discrete state transition emitted by the engine.
type EventKind string

const (
	EventHandDealt        EventKind = "hand_dealt"
	EventSequenceChanged  EventKind = "sequence_changed"
	EventSequenceStarted  EventKind = "sequence_started"
	EventEntryStarted     EventKind = "entry_started"
	EventEntryFinished    EventKind = "entry_finished"
	EventDogTurned        EventKind = "dog_turned"
	EventDogMoved         EventKind = "dog_moved"
	EventStepBlocked      EventKind = "step_blocked"
	EventFencePlaced      EventKind = "fence_placed"
	EventFenceRefused     EventKind = "fence_refused"
	EventBarked           EventKind = "barked"
	EventCowMoved         EventKind = "cow_moved"
	EventPushBlocked      EventKind = "push_blocked"
	EventCowScored        EventKind = "cow_scored"
	EventCowLost          EventKind = "cow_lost"
	EventReactionsStarted EventKind = "reactions_started"
	EventSequenceFinished EventKind = "sequence_finished"
	EventGameOver         EventKind = "game_over"
)

// Pacing hints for renderers that replay events at human speed.
const (
	paceTurn      = 200 * time.Millisecond
	paceStep      = 300 * time.Millisecond
	paceCow       = 200 * time.Millisecond
	paceFence     = 300 * time.Millisecond
	paceBark      = 300 * time.Millisecond
	paceEntry     = 800 * time.Millisecond
	paceReactions = 500 * time.Millisecond
)

// Event is one atomic transition. Pace is how long a renderer should hold the
// resulting frame; headless callers ignore it.
type Event struct {
	Seq     int           `json:"seq"`
	Kind    EventKind     `json:"kind"`
	Pace    time.Duration `json:"-"`
	PaceMs  int64         `json:"paceMs"`
	Payload any           `json:"payload,omitempty"`
}

// HandPayload carries a freshly dealt hand.
type HandPayload struct {
	Hand []Card `json:"hand"`
}

// SequencePayload carries the queued entries after a change.
type SequencePayload struct {
	Sequence []Entry `json:"sequence"`
}

// EntryPayload identifies the queue entry being executed.
type EntryPayload struct {
	Index int   `json:"index"`
	Entry Entry `json:"entry"`
}

// DogPayload is the dog after a turn or step, with the cell it left.
type DogPayload struct {
	Dog  Dog   `json:"dog"`
	From Point `json:"from"`
}

// CellPayload names a single board cell, e.g. a placed or refused fence.
type CellPayload struct {
	At Point `json:"at"`
}

// BarkPayload lists the ids of cows within bark range, in storage order.
type BarkPayload struct {
	Affected []int `json:"affected"`
}

// CowMovedPayload records one cow changing cells.
type CowMovedPayload struct {
	CowID int   `json:"cowId"`
	From  Point `json:"from"`
	To    Point `json:"to"`
}

// PushBlockedPayload reports a cow that could not be pushed into Target
// because Blocker, the end of the push chain, cannot take a cow.
type PushBlockedPayload struct {
	CowID   int   `json:"cowId"`
	Target  Point `json:"target"`
	Blocker Point `json:"blocker"`
}

// CowRemovedPayload is sent when a cow is penned or leaves the board.
type CowRemovedPayload struct {
	CowID    int      `json:"cowId"`
	At       Point    `json:"at"`
	Counters Counters `json:"counters"`
}

// RoundPayload summarises the game after a played sequence.
type RoundPayload struct {
	Rounds   int      `json:"rounds"`
	Counters Counters `json:"counters"`
}

// begin starts collecting events for a command. A command issued by an
// observer while another is collecting gets its own buffer; the outer one is
// parked on g.outer until the inner flush.
func (g *Game) begin() {
	g.outer = append(g.outer, g.events)
	g.events = nil
}

// flush hands the collected events to the caller and resumes the enclosing
// command's buffer, if any.
func (g *Game) flush() []Event {
	out := g.events
	g.events = nil
	if n := len(g.outer); n > 0 {
		g.events = g.outer[n-1]
		g.outer = g.outer[:n-1]
	}
	return out
}

func (g *Game) emit(kind EventKind, pace time.Duration, payload any) {
	g.eventSeq++
	ev := Event{
		Seq:     g.eventSeq,
		Kind:    kind,
		Pace:    pace,
		PaceMs:  pace.Milliseconds(),
		Payload: payload,
	}
	g.events = append(g.events, ev)
	if g.observer != nil {
		g.observer(ev)
	}
}

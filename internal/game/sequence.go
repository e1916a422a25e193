package game

// PlaySequence executes the queued entries in order, runs the herd reaction
// phase, then clears the queue and deals a new hand.
//
// State transitions:
//   - Idle → Executing on a non-empty queue; commands issued from an observer
//     while executing are rejected with ErrExecuting.
//   - Executing → Idle after the reaction phase.
//   - If the last cow leaves the board the game becomes finished and further
//     plays return ErrGameOver.
func (g *Game) PlaySequence() ([]Event, error) {
	if g.executing {
		return nil, ErrExecuting
	}
	if g.Finished() {
		return nil, ErrGameOver
	}
	if len(g.sequence) == 0 {
		return nil, ErrEmptySequence
	}

	g.begin()
	g.executing = true
	g.emit(EventSequenceStarted, 0, SequencePayload{Sequence: append([]Entry{}, g.sequence...)})

	for i, e := range g.sequence {
		g.current = i
		g.emit(EventEntryStarted, 0, EntryPayload{Index: i, Entry: e})
		g.execute(e)
		g.emit(EventEntryFinished, paceEntry, EntryPayload{Index: i, Entry: e})
	}

	g.reactCows()

	g.executing = false
	g.current = -1
	g.sequence = nil
	g.rounds++
	g.log.Debug().
		Int("round", g.rounds).
		Int("remaining", g.counters.Remaining).
		Int("scored", g.counters.Scored).
		Int("lost", g.counters.Lost).
		Msg("sequence played")
	g.emit(EventSequenceFinished, 0, RoundPayload{Rounds: g.rounds, Counters: g.counters})
	if g.Finished() {
		g.emit(EventGameOver, 0, RoundPayload{Rounds: g.rounds, Counters: g.counters})
	}
	g.dealHand()
	return g.flush(), nil
}

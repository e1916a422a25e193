package game

// checkScoringAndLoss removes a cow that reached the pen (scored) or left the
// board (lost). The pen is checked first.
func (g *Game) checkScoringAndLoss(id int) {
	idx := g.cowIndex(id)
	if idx < 0 {
		return
	}
	at := g.cows[idx].Point
	switch {
	case InPen(at):
		g.counters.Scored++
		g.removeCow(idx)
		g.log.Debug().Int("cow", id).Msg("cow penned")
		g.emit(EventCowScored, 0, CowRemovedPayload{CowID: id, At: at, Counters: g.counters})
	case !InBounds(at):
		g.counters.Lost++
		g.removeCow(idx)
		g.log.Debug().Int("cow", id).Msg("cow lost")
		g.emit(EventCowLost, 0, CowRemovedPayload{CowID: id, At: at, Counters: g.counters})
	}
}

// removeCow deletes by storage index, preserving the order of the rest.
func (g *Game) removeCow(idx int) {
	g.cows = append(g.cows[:idx], g.cows[idx+1:]...)
	g.counters.Remaining = len(g.cows)
}

package game

// orthogonal lists the escape directions in fixed order: up, right, down, left.
var orthogonal = [4]Point{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: 0}}

// moveCowAwayFromDog picks an escape cell for the cow relative to the dog
// and pushes it there. Returns true if the cow moved.
//
//   - On the dog's cell: first valid direction of a fresh shuffle.
//   - One cell orthogonally away: one more cell along the same axis.
//   - |dx|==1 or |dy|==1 otherwise: first valid of up, right, down, left.
//   - Anything else stays put.
func (g *Game) moveCowAwayFromDog(id int) bool {
	idx := g.cowIndex(id)
	if idx < 0 {
		return false
	}
	cow := g.cows[idx]
	d := cow.Point.Sub(g.dog.Point)
	adx, ady := abs(d.X), abs(d.Y)

	switch {
	case d == (Point{}):
		dirs := orthogonal
		g.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
		return g.pushFirstValid(id, cow.Point, dirs)
	case adx == 1 && ady == 0, adx == 0 && ady == 1:
		return g.pushCowToPosition(id, cow.Point.Add(d))
	case adx == 1 || ady == 1:
		return g.pushFirstValid(id, cow.Point, orthogonal)
	}
	return false
}

func (g *Game) pushFirstValid(id int, from Point, dirs [4]Point) bool {
	for _, v := range dirs {
		if to := from.Add(v); g.validCowMove(to) {
			return g.pushCowToPosition(id, to)
		}
	}
	return false
}

// pushCowToPosition relocates a cow, shoving any cows in the way one cell
// further along the same vector. The chain is collected iteratively and
// moves all-or-nothing: if any cell along it is the dog's or fenced, no cow
// moves. Cows move far end first, each followed by a scoring check.
func (g *Game) pushCowToPosition(id int, target Point) bool {
	idx := g.cowIndex(id)
	if idx < 0 {
		return false
	}
	v := target.Sub(g.cows[idx].Point)
	if v == (Point{}) {
		return false
	}

	chain := []int{id}
	cells := []Point{target}
	for {
		cell := cells[len(cells)-1]
		if !g.validCowMove(cell) {
			g.log.Debug().Int("cow", id).Int("x", cell.X).Int("y", cell.Y).Msg("push blocked")
			g.emit(EventPushBlocked, 0, PushBlockedPayload{CowID: id, Target: target, Blocker: cell})
			return false
		}
		next := g.cowIndexAt(cell)
		if next < 0 {
			break
		}
		// Cells advance along a fixed non-zero vector, so each holds a
		// distinct cow and the chain can never outgrow the herd.
		if len(chain) > len(g.cows) {
			g.log.Error().Int("cow", id).Msg("push chain exceeded herd size")
			return false
		}
		chain = append(chain, g.cows[next].ID)
		cells = append(cells, cell.Add(v))
	}

	for k := len(chain) - 1; k >= 0; k-- {
		g.relocateCow(chain[k], cells[k])
	}
	return true
}

// relocateCow moves one cow to a free cell, then scores it.
func (g *Game) relocateCow(id int, to Point) {
	idx := g.cowIndex(id)
	if idx < 0 {
		return
	}
	from := g.cows[idx].Point
	g.cows[idx].Point = to
	g.emit(EventCowMoved, paceCow, CowMovedPayload{CowID: id, From: from, To: to})
	g.checkScoringAndLoss(id)
}

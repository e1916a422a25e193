package game

// barkRange is the Chebyshev radius of a bark.
const barkRange = 3

// execute resolves one queued entry against the board.
func (g *Game) execute(e Entry) {
	switch e.Action {
	case ActionMove1:
		g.moveDogForward(1)
	case ActionMove2:
		g.moveDogForward(2)
	case ActionMove3:
		g.moveDogForward(3)
	case ActionFence:
		g.placeFence()
	case ActionBark:
		g.bark()
	case ActionTurnLeft:
		g.turn(3)
	case ActionTurnRight:
		g.turn(1)
	case ActionTurnAround:
		g.turn(2)
	default:
		g.log.Warn().Str("action", string(e.Action)).Msg("unknown action skipped")
	}
}

func (g *Game) turn(quarters int) {
	g.dog.Direction = g.dog.Direction.Turn(quarters)
	g.emit(EventDogTurned, paceTurn, DogPayload{Dog: g.dog, From: g.dog.Point})
}

// moveDogForward walks the dog up to n cells. A step that would leave the
// board or land on a fence ends the move; earlier steps are kept.
//
// Fences stop the dog as well as cows, so the dog never stands on a fenced
// cell. A bounds-only check would let it walk over fences it just placed.
func (g *Game) moveDogForward(n int) {
	v := g.dog.Direction.Vector()
	for i := 0; i < n; i++ {
		next := g.dog.Point.Add(v)
		if !InBounds(next) || g.fenced(next) {
			g.emit(EventStepBlocked, 0, CellPayload{At: next})
			return
		}
		from := g.dog.Point
		g.dog.Point = next
		g.emit(EventDogMoved, paceStep, DogPayload{Dog: g.dog, From: from})

		if idx := g.cowIndexAt(next); idx >= 0 {
			g.moveCowAwayFromDog(g.cows[idx].ID)
		}
		adjacent := g.cowIDsWhere(func(c Cow) bool {
			return manhattan(c.Point, g.dog.Point) == 1
		})
		for _, id := range adjacent {
			g.moveCowAwayFromDog(id)
		}
	}
}

// placeFence fences the cell in front of the dog. Out-of-bounds, already
// fenced and pen cells are refused without error.
func (g *Game) placeFence() {
	target := g.dog.Point.Add(g.dog.Direction.Vector())
	if !InBounds(target) || g.fenced(target) || InPen(target) {
		g.log.Debug().Int("x", target.X).Int("y", target.Y).Msg("fence refused")
		g.emit(EventFenceRefused, paceFence, CellPayload{At: target})
		return
	}
	g.addFence(target)
	g.emit(EventFencePlaced, paceFence, CellPayload{At: target})
	if idx := g.cowIndexAt(target); idx >= 0 {
		g.moveCowAwayFromDog(g.cows[idx].ID)
	}
}

// bark scares every cow within barkRange, in storage order.
func (g *Game) bark() {
	affected := g.cowIDsWhere(func(c Cow) bool {
		return chebyshev(c.Point, g.dog.Point) <= barkRange
	})
	g.emit(EventBarked, paceBark, BarkPayload{Affected: affected})
	for _, id := range affected {
		g.moveCowAwayFromDog(id)
	}
}

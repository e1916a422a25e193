package game

// walkDirections is the candidate order for random walks: down, right, up, left.
var walkDirections = [4]Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// wanderChance is the probability a cow with somewhere to go actually moves.
const wanderChance = 0.7

// reactCows gives every live cow one random-walk attempt, in storage order.
func (g *Game) reactCows() {
	g.emit(EventReactionsStarted, paceReactions, nil)
	for _, id := range g.cowIDsWhere(func(Cow) bool { return true }) {
		g.wander(id)
	}
	g.counters.Remaining = len(g.cows)
}

// wander moves a cow one cell in a random direction that does not bring it
// closer to the dog (Manhattan).
func (g *Game) wander(id int) {
	idx := g.cowIndex(id)
	if idx < 0 {
		return
	}
	from := g.cows[idx].Point
	current := manhattan(from, g.dog.Point)

	options := make([]Point, 0, len(walkDirections))
	for _, v := range walkDirections {
		to := from.Add(v)
		if g.validCowMove(to) && manhattan(to, g.dog.Point) >= current {
			options = append(options, to)
		}
	}
	if len(options) == 0 || g.rng.Float64() >= wanderChance {
		return
	}
	g.pushCowToPosition(id, options[g.rng.Intn(len(options))])
}

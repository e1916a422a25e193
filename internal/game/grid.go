package game

// Fixed board geometry. Rule variants are not supported.
const (
	Width       = 10
	Height      = 10
	InitialCows = 25
)

// Pen is the 2x2 goal region in the top-right corner.
var Pen = Rect{Min: Point{X: 8, Y: 8}, Max: Point{X: 9, Y: 9}}

// initialFences funnels cows towards the pen entrance.
var initialFences = []Point{
	{X: 6, Y: 9}, {X: 7, Y: 9},
	{X: 9, Y: 6}, {X: 9, Y: 7},
}

// InBounds reports whether p lies on the board.
func InBounds(p Point) bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Height
}

// InPen reports whether p lies inside the pen.
func InPen(p Point) bool { return Pen.Contains(p) }

func manhattan(a, b Point) int { return abs(a.X-b.X) + abs(a.Y-b.Y) }

func chebyshev(a, b Point) int { return max(abs(a.X-b.X), abs(a.Y-b.Y)) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// fenced reports whether p holds a fence.
func (g *Game) fenced(p Point) bool {
	_, ok := g.fenceAt[p]
	return ok
}

// addFence appends p to the fence set; duplicates are ignored.
func (g *Game) addFence(p Point) bool {
	if g.fenced(p) {
		return false
	}
	g.fenceAt[p] = struct{}{}
	g.fences = append(g.fences, p)
	return true
}

// validCowMove: cows may leave the board or enter the pen, but never step
// onto the dog or a fence.
func (g *Game) validCowMove(p Point) bool {
	return p != g.dog.Point && !g.fenced(p)
}

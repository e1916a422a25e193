// internal/game/types.go
//
// Core type definitions for the herding engine.
// Defines:
//   - Point, Rect, Direction: board geometry primitives.
//   - Dog, Cow: the entities living on the board.
//   - Action, CardType, Card, Entry: the card system.
//   - Counters, Snapshot: state exposed to renderers and the HTTP layer.

package game

// Point is a board cell. The origin is bottom-left; y grows upwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an inclusive cell range.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Contains reports whether p lies inside r (bounds inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Direction is the dog's facing, encoded 0..3 clockwise from north.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionVectors = [4]Point{
	North: {X: 0, Y: 1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: -1},
	West:  {X: -1, Y: 0},
}

// Vector returns the unit step for d.
func (d Direction) Vector() Point { return directionVectors[d.normalize()] }

// Turn rotates d clockwise by quarter turns (negative values turn left).
func (d Direction) Turn(quarters int) Direction {
	return Direction(int(d) + quarters).normalize()
}

func (d Direction) normalize() Direction {
	return Direction(((int(d) % 4) + 4) % 4)
}

func (d Direction) String() string {
	switch d.normalize() {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	default:
		return "west"
	}
}

// Dog is the single player-controlled entity.
type Dog struct {
	Point
	Direction Direction `json:"direction"`
}

// Cow is a herd member. IDs are assigned at spawn and never reused.
type Cow struct {
	ID int `json:"id"`
	Point
	Color string `json:"color"`
}

// Action identifies what a card or pivot does when executed.
type Action string

const (
	ActionMove1      Action = "move1"
	ActionMove2      Action = "move2"
	ActionMove3      Action = "move3"
	ActionFence      Action = "fence"
	ActionBark       Action = "bark"
	ActionTurnLeft   Action = "turnLeft"
	ActionTurnRight  Action = "turnRight"
	ActionTurnAround Action = "turnAround"
)

// IsPivot reports whether a is a free turn action rather than a dealt card.
func (a Action) IsPivot() bool {
	return a == ActionTurnLeft || a == ActionTurnRight || a == ActionTurnAround
}

// CardType is one entry of the fixed card catalogue.
type CardType struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Action Action `json:"action"`
	Weight int    `json:"weight"`
}

// Card is a dealt hand slot.
type Card struct {
	CardType
	Used bool `json:"used"`
}

// Entry is one queued step of the selected sequence: a hand card or a pivot.
type Entry struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Action Action `json:"action"`
}

// Counters tracks the herd totals. Remaining+Scored+Lost is always the spawn count.
type Counters struct {
	Remaining int `json:"cowsRemaining"`
	Scored    int `json:"cowsScored"`
	Lost      int `json:"cowsLost"`
}

// Snapshot is a deep copy of everything a renderer needs to draw the game.
type Snapshot struct {
	ID           string   `json:"id"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Pen          Rect     `json:"pen"`
	Fences       []Point  `json:"fences"`
	Dog          Dog      `json:"dog"`
	Cows         []Cow    `json:"cows"`
	Hand         []Card   `json:"hand"`
	Sequence     []Entry  `json:"sequence"`
	Counters     Counters `json:"counters"`
	Executing    bool     `json:"isExecuting"`
	CurrentIndex int      `json:"currentIndex"`
	Rounds       int      `json:"rounds"`
	State        string   `json:"state"` // "playing" | "finished"
}

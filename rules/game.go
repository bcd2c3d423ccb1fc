package rules

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

// Sizes of the drawn pieces in device independent units. They double as the
// collision radii.
const (
	FoodSizeDP      = 10
	WallSizeDP      = 15
	BodyPieceSizeDP = 10
	// HeadClearanceDP keeps new walls from appearing on top of the head.
	HeadClearanceDP = 60
)

// PointsPerFood is the score for every food eaten.
const PointsPerFood = 1

// MaxWallCoverage is the share of the play area walls may cover. Once walls
// reach it no more are placed.
const MaxWallCoverage = 0.25

// Game is a single run of the snake game. It is advanced by the host once per
// frame and read back for drawing. Apart from SetMovementDirection, methods
// must be called from one goroutine.
type Game struct {
	params Params

	// heading holds the float64 bits of the direction in radians.
	heading atomic.Uint64

	rng   *rand.Rand
	field *Field
	snake *Snake
	food  Point
	walls []Point

	bounds Rect
	dpToPx float64
	speed  float64
	score  int
	tick   int64
	status GameStatus
	death  *Death

	touches   int
	lastTouch Point
}

// NewGame returns an unstarted game drawing random placements from src. A nil
// src is seeded from the clock.
func NewGame(src rand.Source) *Game {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	rng := rand.New(src)
	return &Game{
		rng:    rng,
		field:  NewField(rng),
		dpToPx: 1,
		status: GameStatusNotStarted,
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// SetParams sets every difficulty parameter at once. Ignored once started.
func (g *Game) SetParams(p Params) {
	g.SetInitialSpeed(p.InitialSpeed)
	g.SetWallPlacementProbability(p.WallPlacementProbability)
	g.SetSpeedIncreasePerFood(p.SpeedIncreasePerFood)
	g.SetLengthIncreasePerFood(p.LengthIncreasePerFood)
}

// SetInitialSpeed sets the speed, in dp per tick, the snake starts with.
func (g *Game) SetInitialSpeed(v float64) {
	if g.status == GameStatusNotStarted {
		g.params.InitialSpeed = nonNegative(v)
	}
}

// SetWallPlacementProbability sets the chance per tick of adding a wall.
func (g *Game) SetWallPlacementProbability(v float64) {
	if g.status == GameStatusNotStarted {
		g.params.WallPlacementProbability = nonNegative(v)
	}
}

// SetSpeedIncreasePerFood sets how much faster the snake gets per food.
func (g *Game) SetSpeedIncreasePerFood(v float64) {
	if g.status == GameStatusNotStarted {
		g.params.SpeedIncreasePerFood = nonNegative(v)
	}
}

// SetLengthIncreasePerFood sets how many segments the snake grows per food.
func (g *Game) SetLengthIncreasePerFood(n int) {
	if g.status != GameStatusNotStarted {
		return
	}
	if n < 0 {
		n = 0
	}
	g.params.LengthIncreasePerFood = n
}

// SetDpToPxFactor sets the multiplier from device independent units to
// pixels. It scales the speed and every radius. Food that overlaps the snake
// or a wall at the new scale is placed again.
func (g *Game) SetDpToPxFactor(factor float64) {
	if factor <= 0 {
		return
	}
	g.dpToPx = factor
	if g.snake == nil {
		return
	}
	g.snake.radius = g.BodyRadius()
	if g.status == GameStatusRunning && clearance(g.food, g.FoodRadius(), g.foodExclusions()) <= 0 {
		g.placeFood()
	}
}

// StartGame lays out a width x height play area with the snake in the middle,
// heading right, and places the first food. Calling it again does nothing.
func (g *Game) StartGame(width, height float64) {
	if g.status != GameStatusNotStarted {
		return
	}
	g.bounds = Bounds(width, height)
	g.snake = NewSnake(g.bounds.Center(), g.BodyRadius())
	g.SetMovementDirection(0)
	g.speed = g.params.InitialSpeed
	g.walls = nil
	g.score = 0
	g.tick = 0
	g.status = GameStatusRunning
	g.placeFood()
}

// SetMovementDirection overwrites the heading. It is safe to call from any
// goroutine, the last write wins.
func (g *Game) SetMovementDirection(angle float64) {
	g.heading.Store(math.Float64bits(angle))
}

// Touched records a tap at p. The game itself does not react to taps.
func (g *Game) Touched(p Point) {
	g.touches++
	g.lastTouch = p
}

// Advance runs the game one tick. It does nothing unless the game is running.
// Boundary, self and wall collisions are checked before food so a tick that
// does both ends the game without scoring.
func (g *Game) Advance() {
	if g.status != GameStatusRunning {
		return
	}
	g.tick++
	g.snake.AdvanceHead(g.Heading(), g.speed*g.dpToPx)

	if cause := g.checkForDeath(); cause != "" {
		g.status = GameStatusOver
		g.death = &Death{Tick: g.tick, Cause: cause}
		return
	}

	if g.snake.CollidesWithPoint(g.food, g.FoodRadius()) {
		g.score += PointsPerFood
		g.snake.GrowBy(g.params.LengthIncreasePerFood)
		g.speed += g.params.SpeedIncreasePerFood
		g.placeFood()
	}

	g.maybePlaceWall()
}

func (g *Game) checkForDeath() string {
	if !g.bounds.Contains(g.snake.Head()) {
		return DeathCauseOutOfBounds
	}
	if g.snake.CollidesWithSelf() {
		return DeathCauseSelfCollision
	}
	wallRadius := g.WallRadius()
	for _, w := range g.walls {
		if g.snake.CollidesWithPoint(w, wallRadius) {
			return DeathCauseWallCollision
		}
	}
	return ""
}

func (g *Game) foodExclusions() []Region {
	excluded := Regions(g.snake.body, g.BodyRadius())
	return append(excluded, Regions(g.walls, g.WallRadius())...)
}

func (g *Game) placeFood() {
	g.food = g.field.PlaceFood(g.FoodRadius(), g.foodExclusions(), g.bounds)
}

// maxWalls is how many walls fit in MaxWallCoverage of the play area.
func (g *Game) maxWalls() int {
	r := g.WallRadius()
	return int(MaxWallCoverage * g.bounds.Area() / (math.Pi * r * r))
}

func (g *Game) maybePlaceWall() {
	if len(g.walls) >= g.maxWalls() {
		return
	}
	excluded := append(g.foodExclusions(),
		Region{Center: g.food, Radius: g.FoodRadius()},
		Region{Center: g.snake.Head(), Radius: HeadClearanceDP * g.dpToPx},
	)
	if p, ok := g.field.MaybePlaceWall(g.params.WallPlacementProbability, g.WallRadius(), excluded, g.bounds); ok {
		g.walls = append(g.walls, p)
	}
}

// PlaceFoodAt moves the food to p.
func (g *Game) PlaceFoodAt(p Point) { g.food = p }

// Heading is the current direction of travel in radians.
func (g *Game) Heading() float64 { return math.Float64frombits(g.heading.Load()) }

// Params returns the difficulty parameters of the game.
func (g *Game) Params() Params { return g.params }

// Score is the number of points scored so far.
func (g *Game) Score() int { return g.score }

// Speed is the current speed in dp per tick.
func (g *Game) Speed() float64 { return g.speed }

// Tick is the number of ticks advanced while running.
func (g *Game) Tick() int64 { return g.tick }

// Status returns the state of the game.
func (g *Game) Status() GameStatus { return g.status }

// Death returns how the game ended, nil while it has not.
func (g *Game) Death() *Death { return g.death }

// IsGameOver reports whether the snake has died.
func (g *Game) IsGameOver() bool { return g.status == GameStatusOver }

// HasNotStarted reports whether StartGame has not been called yet.
func (g *Game) HasNotStarted() bool { return g.status == GameStatusNotStarted }

// Food returns the food location.
func (g *Game) Food() Point { return g.food }

// Walls returns a copy of the wall locations.
func (g *Game) Walls() []Point {
	walls := make([]Point, len(g.walls))
	copy(walls, g.walls)
	return walls
}

// Body returns the snake body, head first. Empty before the game starts.
func (g *Game) Body() []Point {
	if g.snake == nil {
		return []Point{}
	}
	return g.snake.Body()
}

// TargetLength is the number of segments the snake is growing towards.
func (g *Game) TargetLength() int {
	if g.snake == nil {
		return 0
	}
	return g.snake.TargetLength()
}

// Touches is the number of taps recorded.
func (g *Game) Touches() int { return g.touches }

// LastTouch is the location of the latest tap.
func (g *Game) LastTouch() Point { return g.lastTouch }

// Width of the play area.
func (g *Game) Width() float64 { return g.bounds.Width() }

// Height of the play area.
func (g *Game) Height() float64 { return g.bounds.Height() }

// DpToPx is the unit scale factor.
func (g *Game) DpToPx() float64 { return g.dpToPx }

// FoodRadius in pixels.
func (g *Game) FoodRadius() float64 { return FoodSizeDP * g.dpToPx }

// WallRadius in pixels.
func (g *Game) WallRadius() float64 { return WallSizeDP * g.dpToPx }

// BodyRadius in pixels.
func (g *Game) BodyRadius() float64 { return BodyPieceSizeDP * g.dpToPx }

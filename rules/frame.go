package rules

// Frame is a copy of everything a renderer needs to draw one tick.
type Frame struct {
	Tick       int64      `json:"tick"`
	Status     GameStatus `json:"status"`
	Score      int        `json:"score"`
	Speed      float64    `json:"speed"`
	Heading    float64    `json:"heading"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Food       Point      `json:"food"`
	Walls      []Point    `json:"walls"`
	Body       []Point    `json:"body"`
	Death      *Death     `json:"death,omitempty"`
	FoodRadius float64    `json:"food_radius"`
	WallRadius float64    `json:"wall_radius"`
	BodyRadius float64    `json:"body_radius"`
}

// Head returns the first point in the body.
func (f Frame) Head() (Point, bool) {
	if len(f.Body) == 0 {
		return Point{}, false
	}
	return f.Body[0], true
}

// Snapshot copies the current state of the game into a frame.
func (g *Game) Snapshot() Frame {
	f := Frame{
		Tick:       g.tick,
		Status:     g.status,
		Score:      g.score,
		Speed:      g.speed,
		Heading:    g.Heading(),
		Width:      g.Width(),
		Height:     g.Height(),
		Food:       g.food,
		Walls:      g.Walls(),
		Body:       g.Body(),
		FoodRadius: g.FoodRadius(),
		WallRadius: g.WallRadius(),
		BodyRadius: g.BodyRadius(),
	}
	if g.death != nil {
		d := *g.death
		f.Death = &d
	}
	return f
}

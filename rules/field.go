package rules

import (
	"math"
	"math/rand"
)

// PlacementAttempts is the number of random candidates tried before a
// placement gives up on clearing every excluded region.
const PlacementAttempts = 100

// Region is a disk that placed items must keep clear of.
type Region struct {
	Center Point
	Radius float64
}

// Regions turns points that share a radius into exclusion regions.
func Regions(points []Point, radius float64) []Region {
	regions := make([]Region, 0, len(points))
	for _, p := range points {
		regions = append(regions, Region{Center: p, Radius: radius})
	}
	return regions
}

// Field places food and walls by rejection sampling inside the play area.
type Field struct {
	rng *rand.Rand
}

// NewField returns a field drawing candidates from rng.
func NewField(rng *rand.Rand) *Field {
	return &Field{rng: rng}
}

// PlaceFood returns a point for a food item of radius. Food placement always
// succeeds: when no candidate clears every region within the retry budget the
// clearance is relaxed and the least overlapping candidate is used.
func (f *Field) PlaceFood(radius float64, excluded []Region, bounds Rect) Point {
	p, _ := f.place(radius, excluded, bounds)
	return p
}

// MaybePlaceWall runs one Bernoulli trial with the given probability and, on
// success, tries to place a wall of radius. The bool is false when the trial
// failed or no clear point was found.
func (f *Field) MaybePlaceWall(probability, radius float64, excluded []Region, bounds Rect) (Point, bool) {
	if probability <= 0 || f.rng.Float64() >= probability {
		return Point{}, false
	}
	p, ok := f.place(radius, excluded, bounds)
	if !ok {
		return Point{}, false
	}
	return p, true
}

// place samples candidates until one clears every region. It returns the
// candidate with the most slack when none does.
func (f *Field) place(radius float64, excluded []Region, bounds Rect) (Point, bool) {
	area := bounds.Inset(radius)

	var (
		best      Point
		bestSlack = math.Inf(-1)
	)
	for i := 0; i < PlacementAttempts; i++ {
		p := f.sample(area)
		slack := clearance(p, radius, excluded)
		if slack > 0 {
			return p, true
		}
		if slack > bestSlack {
			best, bestSlack = p, slack
		}
	}
	return best, false
}

func (f *Field) sample(area Rect) Point {
	return Point{
		X: area.Min.X + f.rng.Float64()*area.Width(),
		Y: area.Min.Y + f.rng.Float64()*area.Height(),
	}
}

// clearance is the smallest gap between a disk at p and the excluded regions.
// Zero or less means the disks touch or overlap.
func clearance(p Point, radius float64, excluded []Region) float64 {
	slack := math.Inf(1)
	for _, r := range excluded {
		gap := Distance(p, r.Center) - (radius + r.Radius)
		if gap < slack {
			slack = gap
		}
	}
	return slack
}

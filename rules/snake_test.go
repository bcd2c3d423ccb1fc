package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnake_AdvanceHead(t *testing.T) {
	tests := []struct {
		Heading  float64
		Expected Point
	}{
		{Heading: 0, Expected: Point{X: 7, Y: 5}},
		{Heading: math.Pi / 2, Expected: Point{X: 5, Y: 7}},
		{Heading: math.Pi, Expected: Point{X: 3, Y: 5}},
		{Heading: -math.Pi / 2, Expected: Point{X: 5, Y: 3}},
		{Heading: math.Pi / 4, Expected: Point{X: 5 + math.Sqrt2, Y: 5 + math.Sqrt2}},
	}

	for _, test := range tests {
		s := NewSnake(Point{X: 5, Y: 5}, 1)
		s.AdvanceHead(test.Heading, 2)
		require.InDelta(t, test.Expected.X, s.Head().X, 1e-9, "Heading: %v", test.Heading)
		require.InDelta(t, test.Expected.Y, s.Head().Y, 1e-9, "Heading: %v", test.Heading)
		require.Equal(t, 1, s.Len())
	}
}

func TestSnake_GrowByIsGradual(t *testing.T) {
	s := NewSnake(Point{}, 1)
	s.GrowBy(3)
	require.Equal(t, 4, s.TargetLength())
	require.Equal(t, 1, s.Len())

	for i := 2; i <= 4; i++ {
		s.AdvanceHead(0, 1)
		require.Equal(t, i, s.Len())
	}
	for i := 0; i < 5; i++ {
		s.AdvanceHead(0, 1)
		require.Equal(t, 4, s.Len())
	}

	body := s.Body()
	require.Equal(t, Point{X: 8, Y: 0}, body[0])
	require.Equal(t, Point{X: 5, Y: 0}, body[3])
}

func TestSnake_GrowByNeverShrinks(t *testing.T) {
	s := NewSnake(Point{}, 1)
	s.GrowBy(2)
	s.GrowBy(-5)
	s.GrowBy(0)
	require.Equal(t, 3, s.TargetLength())
}

func TestSnake_BodyIsCopy(t *testing.T) {
	s := NewSnake(Point{X: 1, Y: 1}, 1)
	body := s.Body()
	body[0] = Point{X: 100, Y: 100}
	require.Equal(t, Point{X: 1, Y: 1}, s.Head())
}

func TestSnake_CollidesWithSelf(t *testing.T) {
	tests := []struct {
		Name     string
		Body     []Point
		Expected bool
	}{
		{
			Name:     "single segment",
			Body:     []Point{{X: 0, Y: 0}},
			Expected: false,
		},
		{
			Name: "straight line",
			Body: []Point{
				{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1.5, Y: 0},
				{X: 2, Y: 0}, {X: 2.5, Y: 0}, {X: 3, Y: 0}, {X: 3.5, Y: 0},
			},
			Expected: false,
		},
		{
			Name:     "overlapping neck",
			Body:     []Point{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}},
			Expected: false,
		},
		{
			Name: "loop touching the head",
			Body: []Point{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
				{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1},
			},
			Expected: true,
		},
		{
			Name: "loop short of the head",
			Body: []Point{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
				{X: 2, Y: 1.5}, {X: 1, Y: 1.5}, {X: 0, Y: 1.5},
			},
			Expected: false,
		},
	}

	for _, test := range tests {
		s := &Snake{body: test.Body, target: len(test.Body), radius: 1}
		require.Equal(t, test.Expected, s.CollidesWithSelf(), test.Name)
	}
}

func TestSnake_CollidesWithPoint(t *testing.T) {
	s := NewSnake(Point{}, 1)
	require.True(t, s.CollidesWithPoint(Point{X: 3, Y: 0}, 2))
	require.True(t, s.CollidesWithPoint(Point{X: 0, Y: -1}, 0))
	require.False(t, s.CollidesWithPoint(Point{X: 3.01, Y: 0}, 2))
}

package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeathCauseOutOfBounds(t *testing.T) {
	headings := []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}
	for _, heading := range headings {
		g := newTestGame(DifficultyBeginner)
		g.StartGame(100, 100)
		g.PlaceFoodAt(Point{X: -100, Y: -100})
		g.SetMovementDirection(heading)

		for i := 0; i < 1000 && !g.IsGameOver(); i++ {
			g.Advance()
		}
		require.True(t, g.IsGameOver(), "heading %v", heading)
		require.Equal(t, DeathCauseOutOfBounds, g.Death().Cause, "heading %v", heading)
		require.Equal(t, int64(101), g.Death().Tick, "heading %v", heading)
	}
}

func TestDeathCauseSelfCollision(t *testing.T) {
	g := newTestGame(DifficultyBeginner)
	g.StartGame(400, 400)
	g.PlaceFoodAt(parkedFood)

	// up from the head, across, then back down past it
	body := []Point{{X: 100, Y: 100}}
	for i := 1; i <= 15; i++ {
		body = append(body, Point{X: 100, Y: 100 - 2*float64(i)})
	}
	for i := 1; i <= 5; i++ {
		body = append(body, Point{X: 100 + 2*float64(i), Y: 70})
	}
	for i := 1; i <= 20; i++ {
		body = append(body, Point{X: 110, Y: 70 + 2*float64(i)})
	}
	g.snake = &Snake{body: body, target: len(body), radius: g.BodyRadius()}
	g.SetMovementDirection(0)

	g.Advance()
	require.True(t, g.IsGameOver())
	require.Equal(t, DeathCauseSelfCollision, g.Death().Cause)
	require.Equal(t, int64(1), g.Death().Tick)
}

func TestDeathCauseWallCollision(t *testing.T) {
	g := newTestGame(DifficultyBeginner)
	g.StartGame(400, 400)
	g.PlaceFoodAt(parkedFood)
	g.walls = []Point{{X: 230, Y: 200}}

	for i := 0; i < 1000 && !g.IsGameOver(); i++ {
		g.Advance()
	}
	require.Equal(t, DeathCauseWallCollision, g.Death().Cause)
	// head touches once within body + wall radius of the wall center
	require.Equal(t, int64(10), g.Death().Tick)
}

func TestNoDeathInsideTheBoard(t *testing.T) {
	g := newTestGame(DifficultyBeginner)
	g.StartGame(100, 100)
	g.PlaceFoodAt(Point{X: -100, Y: -100})
	for i := 0; i < 100; i++ {
		g.Advance()
	}
	require.False(t, g.IsGameOver())
	require.Nil(t, g.Death())
	require.Equal(t, Point{X: 100, Y: 50}, g.Body()[0])
}

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetDifficulty(t *testing.T) {
	tests := []struct {
		Difficulty  Difficulty
		Speed       float64
		Probability float64
		Increase    float64
		Key         string
	}{
		{DifficultyBeginner, 0.5, 0, 0.01, "high_beginner_preference"},
		{DifficultyEasy, 0.75, 0.0025, 0.02, "high_easy_preference"},
		{DifficultyMedium, 1, 0.0025, 0.04, "high_medium_preference"},
		{DifficultyHard, 1.75, 0.005, 0.05, "high_hard_preference"},
		{DifficultyInsane, 2, 0.0075, 0.06, "high_insane_preference"},
	}

	for _, test := range tests {
		g := NewGame(nil)
		SetDifficulty(g, test.Difficulty)
		p := g.Params()
		require.Equal(t, test.Speed, p.InitialSpeed, test.Difficulty.String())
		require.Equal(t, test.Probability, p.WallPlacementProbability, test.Difficulty.String())
		require.Equal(t, test.Increase, p.SpeedIncreasePerFood, test.Difficulty.String())
		require.Equal(t, 10, p.LengthIncreasePerFood, test.Difficulty.String())
		require.Equal(t, test.Key, test.Difficulty.HighScoreKey())
	}
}

func TestPresetOutOfRange(t *testing.T) {
	require.Equal(t, Preset(DifficultyInsane), Preset(Difficulty(9)))
	require.Equal(t, Preset(DifficultyInsane), Preset(Difficulty(-1)))
	require.Equal(t, "insane", Difficulty(9).String())
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("Hard")
	require.NoError(t, err)
	require.Equal(t, DifficultyHard, d)

	d, err = ParseDifficulty("1")
	require.NoError(t, err)
	require.Equal(t, DifficultyEasy, d)

	_, err = ParseDifficulty("5")
	require.Error(t, err)

	_, err = ParseDifficulty("nightmare")
	require.Error(t, err)
}

func TestDifficulties(t *testing.T) {
	levels := Difficulties()
	require.Len(t, levels, 5)
	for i, d := range levels {
		require.Equal(t, Difficulty(i), d)
	}
}

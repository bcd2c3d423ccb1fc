package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Difficulty selects one of the preset parameter bundles.
type Difficulty int

// Difficulty levels, in the order the start screen lists them.
const (
	DifficultyBeginner Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
	DifficultyInsane
)

// LengthIncreasePerFood is the growth every preset uses.
const LengthIncreasePerFood = 10

// Params are the difficulty derived values of a session.
type Params struct {
	InitialSpeed             float64 `json:"initial_speed"`
	WallPlacementProbability float64 `json:"wall_placement_probability"`
	SpeedIncreasePerFood     float64 `json:"speed_increase_per_food"`
	LengthIncreasePerFood    int     `json:"length_increase_per_food"`
}

var presets = []Params{
	DifficultyBeginner: {InitialSpeed: 0.5, WallPlacementProbability: 0, SpeedIncreasePerFood: 0.01},
	DifficultyEasy:     {InitialSpeed: 0.75, WallPlacementProbability: 0.0025, SpeedIncreasePerFood: 0.02},
	DifficultyMedium:   {InitialSpeed: 1, WallPlacementProbability: 0.0025, SpeedIncreasePerFood: 0.04},
	DifficultyHard:     {InitialSpeed: 1.75, WallPlacementProbability: 0.005, SpeedIncreasePerFood: 0.05},
	DifficultyInsane:   {InitialSpeed: 2, WallPlacementProbability: 0.0075, SpeedIncreasePerFood: 0.06},
}

var difficultyNames = []string{"beginner", "easy", "medium", "hard", "insane"}

// Difficulties lists every level from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyInsane}
}

func (d Difficulty) valid() bool { return d >= DifficultyBeginner && d <= DifficultyInsane }

// level maps anything outside the known range onto the hardest level.
func (d Difficulty) level() Difficulty {
	if !d.valid() {
		return DifficultyInsane
	}
	return d
}

func (d Difficulty) String() string { return difficultyNames[d.level()] }

// HighScoreKey is the storage key of the best score for this difficulty.
func (d Difficulty) HighScoreKey() string {
	return fmt.Sprintf("high_%s_preference", d)
}

// Preset returns the parameters of a difficulty. Unknown levels get the
// hardest preset.
func Preset(d Difficulty) Params {
	p := presets[d.level()]
	p.LengthIncreasePerFood = LengthIncreasePerFood
	return p
}

// SetDifficulty configures an unstarted game with the preset of d.
func SetDifficulty(g *Game, d Difficulty) {
	g.SetParams(Preset(d))
}

// ParseDifficulty accepts a level name or its ordinal.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range difficultyNames {
		if s == name {
			return Difficulty(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Difficulty(n).valid() {
		return 0, fmt.Errorf("rules: unknown difficulty %q", s)
	}
	return Difficulty(n), nil
}

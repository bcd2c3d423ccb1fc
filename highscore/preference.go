package highscore

import (
	"context"
	"strconv"

	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/pkg/errors"
)

// DifficultyKey holds the ordinal of the last difficulty played, next to the
// scores.
const DifficultyKey = "difficulty_preference"

// LastDifficulty returns the difficulty played last. Beginner is returned
// when none was remembered or the stored value is no longer a difficulty.
func LastDifficulty(ctx context.Context, s Store) (rules.Difficulty, error) {
	v, err := s.Get(ctx, DifficultyKey)
	if errors.Cause(err) == ErrNotFound {
		return rules.DifficultyBeginner, nil
	}
	if err != nil {
		return rules.DifficultyBeginner, errors.Wrap(err, "unable to read difficulty")
	}
	d, err := rules.ParseDifficulty(strconv.Itoa(v))
	if err != nil {
		return rules.DifficultyBeginner, nil
	}
	return d, nil
}

// RememberDifficulty stores d as the difficulty played last.
func RememberDifficulty(ctx context.Context, s Store, d rules.Difficulty) error {
	return errors.Wrap(s.Put(ctx, DifficultyKey, int(d)), "unable to remember difficulty")
}

// Package highscore persists the best score of every difficulty. The game
// core never talks to it; hosts read the stored value and submit the current
// score whenever it beats it.
package highscore

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when no score was stored under a key.
var ErrNotFound = errors.New("highscore: score not found")

// Store is the interface to the backend store.
type Store interface {
	Get(ctx context.Context, key string) (int, error)
	Put(ctx context.Context, key string, score int) error
	// PutIfHigher stores score only if it beats the stored one, a missing
	// score counting as zero. It reports whether it wrote, and must be atomic
	// against concurrent callers on the same key.
	PutIfHigher(ctx context.Context, key string, score int) (bool, error)
	List(ctx context.Context) (map[string]int, error)
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{scores: map[string]int{}}
}

type inmem struct {
	scores map[string]int
	lock   sync.Mutex
}

func (in *inmem) Get(ctx context.Context, key string) (int, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if s, ok := in.scores[key]; ok {
		return s, nil
	}
	return 0, ErrNotFound
}

func (in *inmem) Put(ctx context.Context, key string, score int) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	in.scores[key] = score
	return nil
}

func (in *inmem) PutIfHigher(ctx context.Context, key string, score int) (bool, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if score <= in.scores[key] {
		return false, nil
	}
	in.scores[key] = score
	return true, nil
}

func (in *inmem) List(ctx context.Context) (map[string]int, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	scores := make(map[string]int, len(in.scores))
	for k, v := range in.scores {
		scores[k] = v
	}
	return scores, nil
}

// Best returns the stored score for key, zero when there is none.
func Best(ctx context.Context, s Store, key string) (int, error) {
	score, err := s.Get(ctx, key)
	if errors.Cause(err) == ErrNotFound {
		return 0, nil
	}
	return score, err
}

// Submit stores score under key if it beats the stored one. It reports whether
// the score was written.
func Submit(ctx context.Context, s Store, key string, score int) (bool, error) {
	wrote, err := s.PutIfHigher(ctx, key, score)
	if err != nil {
		return false, errors.Wrapf(err, "unable to submit high score %s", key)
	}
	return wrote, nil
}

// Entry is one stored score.
type Entry struct {
	Key   string `json:"key"`
	Score int    `json:"score"`
}

// Sorted lists every stored score ordered by key.
func Sorted(ctx context.Context, s Store) ([]Entry, error) {
	scores, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(scores))
	for k, v := range scores {
		entries = append(entries, Entry{Key: k, Score: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Package testsuite holds the behaviour every highscore.Store backend must
// share.
package testsuite

import (
	"context"
	"sync"
	"testing"

	"github.com/battlesnakeio/gravitysnake/highscore"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
)

func testStoreMissing(t *testing.T, s highscore.Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, uuid.NewV4().String())
	require.Equal(t, highscore.ErrNotFound, err)

	best, err := highscore.Best(ctx, s, uuid.NewV4().String())
	require.NoError(t, err)
	require.Equal(t, 0, best)
}

func testStorePutGet(t *testing.T, s highscore.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, key, 12))
	score, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 12, score)

	// Put overwrites, lower or not.
	require.NoError(t, s.Put(ctx, key, 3))
	score, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 3, score)
}

func testStoreSubmit(t *testing.T, s highscore.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	wrote, err := highscore.Submit(ctx, s, key, 5)
	require.NoError(t, err)
	require.True(t, wrote)

	wrote, err = highscore.Submit(ctx, s, key, 5)
	require.NoError(t, err)
	require.False(t, wrote, "equal score is not a new high score")

	wrote, err = highscore.Submit(ctx, s, key, 2)
	require.NoError(t, err)
	require.False(t, wrote)

	wrote, err = highscore.Submit(ctx, s, key, 9)
	require.NoError(t, err)
	require.True(t, wrote)

	score, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 9, score)
}

func testStoreList(t *testing.T, s highscore.Store) {
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "high_easy_preference", 4))
	require.NoError(t, s.Put(ctx, "high_hard_preference", 8))

	scores, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, scores["high_easy_preference"])
	require.Equal(t, 8, scores["high_hard_preference"])

	entries, err := highscore.Sorted(ctx, s)
	require.NoError(t, err)
	require.True(t, len(entries) >= 2)
	for i := 1; i < len(entries); i++ {
		require.True(t, entries[i-1].Key < entries[i].Key)
	}
}

func testStoreConcurrentWriters(t *testing.T, s highscore.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			defer wg.Done()
			require.NoError(t, s.Put(ctx, key, i))
		}(i)
	}
	wg.Wait()

	score, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, score >= 0 && score < 20)
}

func testStoreConcurrentSubmit(t *testing.T, s highscore.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// A low score racing a high one, plus a spread of others, must never
	// leave anything but the maximum behind.
	scores := []int{50, 7}
	for i := 0; i < 20; i++ {
		scores = append(scores, i)
	}

	var wg sync.WaitGroup
	wg.Add(len(scores))
	for _, score := range scores {
		go func(score int) {
			defer wg.Done()
			_, err := highscore.Submit(ctx, s, key, score)
			require.NoError(t, err)
		}(score)
	}
	wg.Wait()

	score, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 50, score)
}

func testStorePutIfHigher(t *testing.T, s highscore.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	wrote, err := s.PutIfHigher(ctx, key, 0)
	require.NoError(t, err)
	require.False(t, wrote, "zero never beats a missing score")
	_, err = s.Get(ctx, key)
	require.Equal(t, highscore.ErrNotFound, err)

	wrote, err = s.PutIfHigher(ctx, key, 3)
	require.NoError(t, err)
	require.True(t, wrote)

	wrote, err = s.PutIfHigher(ctx, key, 1)
	require.NoError(t, err)
	require.False(t, wrote)

	score, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, 3, score)
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s highscore.Store, pretest func()) {
	s = highscore.InstrumentStore(s)
	t.Run("Missing", func(t *testing.T) { pretest(); testStoreMissing(t, s) })
	t.Run("PutGet", func(t *testing.T) { pretest(); testStorePutGet(t, s) })
	t.Run("Submit", func(t *testing.T) { pretest(); testStoreSubmit(t, s) })
	t.Run("List", func(t *testing.T) { pretest(); testStoreList(t, s) })
	t.Run("ConcurrentWriters", func(t *testing.T) { pretest(); testStoreConcurrentWriters(t, s) })
	t.Run("PutIfHigher", func(t *testing.T) { pretest(); testStorePutIfHigher(t, s) })
	t.Run("ConcurrentSubmit", func(t *testing.T) { pretest(); testStoreConcurrentSubmit(t, s) })
}

package highscore_test

import (
	"context"
	"testing"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/highscore/testsuite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestInMemStore(t *testing.T) {
	s := highscore.InMemStore()
	testsuite.Suite(t, s, func() {})
}

type failingStore struct {
	highscore.Store
	err error
}

func (f *failingStore) Get(ctx context.Context, key string) (int, error) { return 0, f.err }

func (f *failingStore) PutIfHigher(ctx context.Context, key string, score int) (bool, error) {
	return false, f.err
}

func TestSubmitError(t *testing.T) {
	s := &failingStore{Store: highscore.InMemStore(), err: errors.New("boom")}

	wrote, err := highscore.Submit(context.Background(), s, "k", 10)
	require.Error(t, err)
	require.False(t, wrote)
	require.Equal(t, "unable to submit high score k: boom", err.Error())
}

func TestBestWrappedNotFound(t *testing.T) {
	s := &failingStore{Store: highscore.InMemStore(), err: errors.Wrap(highscore.ErrNotFound, "wrapped")}

	best, err := highscore.Best(context.Background(), s, "k")
	require.NoError(t, err)
	require.Equal(t, 0, best)
}

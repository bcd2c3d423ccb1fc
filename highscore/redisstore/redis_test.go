package redisstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/highscore/testsuite"
	"github.com/dlsteuer/miniredis"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*miniredis.Miniredis, *Store) {
	server := miniredis.NewMiniRedis()
	require.NoError(t, server.Start())

	store, err := NewStore(fmt.Sprintf("redis://%s", server.Addr()))
	require.NoError(t, err)
	return server, store
}

func TestRedisStore(t *testing.T) {
	server, store := startServer(t)
	defer server.Close()
	defer store.Close()

	testsuite.Suite(t, store, func() { server.FlushAll() })
}

func TestRedisStoreCorruptScore(t *testing.T) {
	server, store := startServer(t)
	defer server.Close()
	defer store.Close()

	server.HSet(store.hash, "high_easy_preference", "lots")
	_, err := store.List(context.Background())
	require.Error(t, err)

	_, err = store.Get(context.Background(), "high_easy_preference")
	require.Error(t, err)
	require.NotEqual(t, highscore.ErrNotFound, err)
}

func TestNewStoreBadURL(t *testing.T) {
	_, err := NewStore("not a url")
	require.Error(t, err)
}

package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/battlesnakeio/gravitysnake/highscore/testsuite"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scores.json")

	s, err := NewFileStore(file)
	require.NoError(t, err)
	testsuite.Suite(t, s, func() {
		fs := s.(*fileStore)
		fs.lock.Lock()
		fs.scores = map[string]int{}
		fs.lock.Unlock()
	})
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "scores.json")
	ctx := context.Background()

	s, err := NewFileStore(file)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "high_medium_preference", 31))

	reopened, err := NewFileStore(file)
	require.NoError(t, err)
	score, err := reopened.Get(ctx, "high_medium_preference")
	require.NoError(t, err)
	require.Equal(t, 31, score)
}

func TestFileStoreEmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, ioutil.WriteFile(file, nil, 0644))

	s, err := NewFileStore(file)
	require.NoError(t, err)
	scores, err := s.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, scores)
}

func TestFileStoreCorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, ioutil.WriteFile(file, []byte("{nope"), 0644))

	_, err := NewFileStore(file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "corrupt high score file")
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "scores.json"))
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "k", 1))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "scores.json", files[0].Name())
}

func TestDefaultPath(t *testing.T) {
	require.Equal(t, "highscores.json", filepath.Base(defaultPath()))
}

package filestore

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"sync"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func defaultPath() string {
	return path.Join(homeDir(), ".gravitysnake/highscores.json")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a store that keeps every score in one JSON file. An
// empty file name means ~/.gravitysnake/highscores.json.
func NewFileStore(file string) (highscore.Store, error) {
	if file == "" {
		file = defaultPath()
	}

	fs := &fileStore{file: file, scores: map[string]int{}}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

type fileStore struct {
	file   string
	scores map[string]int
	lock   sync.Mutex
}

func (fs *fileStore) load() error {
	data, err := ioutil.ReadFile(fs.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", fs.file)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &fs.scores); err != nil {
		return errors.Wrapf(err, "corrupt high score file %s", fs.file)
	}
	return nil
}

// flush writes to a temp file and renames it over the old one, so a crash
// leaves either the old scores or the new ones.
func (fs *fileStore) flush() error {
	data, err := json.MarshalIndent(fs.scores, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(fs.file)
	if err := os.MkdirAll(dir, 0775); err != nil {
		return errors.Wrapf(err, "unable to create %s", dir)
	}

	tmp, err := ioutil.TempFile(dir, ".highscores-")
	if err != nil {
		return errors.Wrap(err, "unable to create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "unable to write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), fs.file); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "unable to replace %s", fs.file)
	}
	log.WithField("file", fs.file).Debug("high scores written")
	return nil
}

func (fs *fileStore) Get(ctx context.Context, key string) (int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if s, ok := fs.scores[key]; ok {
		return s, nil
	}
	return 0, highscore.ErrNotFound
}

func (fs *fileStore) Put(ctx context.Context, key string, score int) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	prev, had := fs.scores[key]
	fs.scores[key] = score
	if err := fs.flush(); err != nil {
		if had {
			fs.scores[key] = prev
		} else {
			delete(fs.scores, key)
		}
		return err
	}
	return nil
}

func (fs *fileStore) PutIfHigher(ctx context.Context, key string, score int) (bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	prev, had := fs.scores[key]
	if score <= prev {
		return false, nil
	}
	fs.scores[key] = score
	if err := fs.flush(); err != nil {
		if had {
			fs.scores[key] = prev
		} else {
			delete(fs.scores, key)
		}
		return false, err
	}
	return true, nil
}

func (fs *fileStore) List(ctx context.Context) (map[string]int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	scores := make(map[string]int, len(fs.scores))
	for k, v := range fs.scores {
		scores[k] = v
	}
	return scores, nil
}

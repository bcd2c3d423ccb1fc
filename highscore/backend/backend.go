// Package backend opens a highscore.Store by name, the way the command line
// selects one.
package backend

import (
	"io"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/highscore/filestore"
	"github.com/battlesnakeio/gravitysnake/highscore/redisstore"
	"github.com/battlesnakeio/gravitysnake/highscore/sqlstore"
	"github.com/pkg/errors"
)

// Names of the supported backends.
const (
	InMem = "inmem"
	File  = "file"
	Redis = "redis"
	SQL   = "sql"
)

// Names lists every backend Open accepts.
var Names = []string{InMem, File, Redis, SQL}

// Open returns the instrumented store called name, configured with args (a
// file name, redis URL or postgres URL), and a func releasing it.
func Open(name, args string) (highscore.Store, func() error, error) {
	var (
		store highscore.Store
		err   error
	)
	switch name {
	case InMem:
		store = highscore.InMemStore()
	case File:
		store, err = filestore.NewFileStore(args)
	case Redis:
		store, err = redisstore.NewStore(args)
	case SQL:
		store, err = sqlstore.NewSQLStore(args)
	default:
		return nil, nil, errors.Errorf("invalid backend %q, expected one of %v", name, Names)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to start %s backend", name)
	}

	closer := func() error { return nil }
	if c, ok := store.(io.Closer); ok {
		closer = c.Close
	}
	return highscore.InstrumentStore(store), closer, nil
}

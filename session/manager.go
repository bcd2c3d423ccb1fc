package session

import (
	"context"
	"math/rand"
	"sync"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/rules"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

// Manager keeps the running games of a host, each under a random id.
type Manager struct {
	store highscore.Store
	opts  Options

	lock  sync.Mutex
	games map[string]*Runner
	// seeds hands every game its own source, nil seeds from the clock.
	seeds *rand.Rand
}

// NewManager returns a manager whose games share store and opts.
func NewManager(store highscore.Store, opts Options) *Manager {
	m := &Manager{
		store: store,
		opts:  opts,
		games: map[string]*Runner{},
	}
	if opts.Source != nil {
		m.seeds = rand.New(opts.Source)
	}
	return m
}

// Create starts a new game at difficulty d. The game runs until it is
// dismissed, removed, abandoned after game over or ctx is done, and then
// leaves the manager.
func (m *Manager) Create(ctx context.Context, d rules.Difficulty, opts Options) *Runner {
	if opts.Source == nil && m.seeds != nil {
		m.lock.Lock()
		opts.Source = rand.NewSource(m.seeds.Int63())
		m.lock.Unlock()
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width, opts.Height = m.opts.Width, m.opts.Height
	}
	if opts.Interval == 0 {
		opts.Interval = m.opts.Interval
	}
	if opts.DpToPx == 0 {
		opts.DpToPx = m.opts.DpToPx
	}
	if opts.SensorRate == 0 {
		opts.SensorRate = m.opts.SensorRate
	}
	if opts.SensorBurst == 0 {
		opts.SensorBurst = m.opts.SensorBurst
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = m.opts.IdleTimeout
	}

	r := NewRunner(uuid.NewV4().String(), d, m.store, opts)
	// Started here so callers never see an unstarted game.
	r.Start(ctx)

	m.lock.Lock()
	m.games[r.ID] = r
	activeGames.Set(float64(len(m.games)))
	m.lock.Unlock()

	go func() {
		err := r.Run(ctx)
		if err != nil && err != context.Canceled && err != ErrClosed && err != ErrAbandoned {
			log.WithError(err).WithField("game", r.ID).Warn("game stopped")
		}
		m.remove(r.ID)
	}()
	return r
}

// Get returns the game with id.
func (m *Manager) Get(id string) (*Runner, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	r, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// Len returns the number of games held.
func (m *Manager) Len() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.games)
}

// Remove stops the game with id and forgets it.
func (m *Manager) Remove(id string) error {
	m.lock.Lock()
	r, ok := m.games[id]
	m.lock.Unlock()
	if !ok {
		return ErrNotFound
	}
	r.Stop()
	m.remove(id)
	return nil
}

func (m *Manager) remove(id string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.games, id)
	activeGames.Set(float64(len(m.games)))
}

// Package session drives one game at a frame rate. It owns the goroutine that
// advances the game, applies gravity samples and taps to it, publishes frames
// to subscribers and records high scores.
package session

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/battlesnakeio/gravitysnake/config"
	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Errors returned by the runner and the manager.
var (
	ErrNotFound  = errors.New("session: game not found")
	ErrClosed    = errors.New("session: game closed")
	ErrAbandoned = errors.New("session: game abandoned")
)

// Angle turns a gravity vector into a heading. The x axis of the sensor points
// away from the screen's x axis, hence the negation.
func Angle(x, y float64) float64 { return math.Atan2(y, -x) }

// Options configures a runner. Zero values fall back to the config package.
type Options struct {
	Width, Height float64
	DpToPx        float64
	Interval      time.Duration
	SensorRate    rate.Limit
	SensorBurst   int
	// IdleTimeout ends Run once a finished game goes that long untapped.
	IdleTimeout time.Duration
	// Source seeds placement, nil seeds from the clock.
	Source rand.Source
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 400
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.DpToPx <= 0 {
		o.DpToPx = config.DpToPx
	}
	if o.Interval <= 0 {
		o.Interval = config.FrameInterval
	}
	if o.SensorRate <= 0 {
		o.SensorRate = config.SensorRate
	}
	if o.SensorBurst <= 0 {
		o.SensorBurst = config.SensorBurst
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = config.IdleTimeout
	}
	return o
}

// State is published after every frame.
type State struct {
	ID           string       `json:"id"`
	Difficulty   string       `json:"difficulty"`
	Frame        rules.Frame  `json:"frame"`
	HighScore    int          `json:"high_score"`
	NewHighScore bool         `json:"new_high_score"`
	Params       rules.Params `json:"params"`
	Touches      int          `json:"touches"`
	Dismissed    bool         `json:"dismissed"`
}

// Runner runs an individual game until it is dismissed or its context ends.
type Runner struct {
	ID         string
	Difficulty rules.Difficulty

	opts    Options
	game    *rules.Game
	store   highscore.Store
	limiter *rate.Limiter
	touches chan rules.Point

	lock   sync.Mutex
	latest State
	subs   map[int]chan State
	nextID int

	done      chan struct{}
	closeOnce sync.Once
}

// NewRunner returns a runner for a new game at difficulty d. The store may be
// nil, in which case no high score is kept.
func NewRunner(id string, d rules.Difficulty, store highscore.Store, opts Options) *Runner {
	opts = opts.withDefaults()

	g := rules.NewGame(opts.Source)
	rules.SetDifficulty(g, d)
	g.SetDpToPxFactor(opts.DpToPx)

	r := &Runner{
		ID:         id,
		Difficulty: d,
		opts:       opts,
		game:       g,
		store:      store,
		limiter:    rate.NewLimiter(opts.SensorRate, opts.SensorBurst),
		touches:    make(chan rules.Point, 16),
		subs:       map[int]chan State{},
		done:       make(chan struct{}),
	}
	r.latest = r.state()
	return r
}

func (r *Runner) state() State {
	return State{
		ID:         r.ID,
		Difficulty: r.Difficulty.String(),
		Frame:      r.game.Snapshot(),
		Params:     r.game.Params(),
		Touches:    r.game.Touches(),
	}
}

// Tilt steers the snake along a gravity vector. Samples beyond the sensor
// rate are dropped and reported as false.
func (r *Runner) Tilt(x, y float64) bool {
	if !r.limiter.Allow() {
		return false
	}
	r.game.SetMovementDirection(Angle(x, y))
	return true
}

// Touch queues a tap for the frame loop. A tap on a finished game dismisses
// it and ends Run.
func (r *Runner) Touch(p rules.Point) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.touches <- p:
		return nil
	case <-r.done:
		return ErrClosed
	}
}

// Latest returns the last published state.
func (r *Runner) Latest() State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.latest
}

// Done is closed once the runner stops.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Subscribe returns a channel receiving every published state and a func to
// stop receiving. Slow subscribers miss states rather than stall the loop. The
// channel is closed when the runner stops.
func (r *Runner) Subscribe() (<-chan State, func()) {
	r.lock.Lock()
	defer r.lock.Unlock()

	ch := make(chan State, 1)
	select {
	case <-r.done:
		ch <- r.latest
		close(ch)
		return ch, func() {}
	default:
	}

	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	ch <- r.latest

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.lock.Lock()
			defer r.lock.Unlock()
			if _, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(ch)
			}
		})
	}
}

func (r *Runner) publish(s State) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.latest = s
	for _, ch := range r.subs {
		// Drop the stale state so the newest one always fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// Stop ends Run and closes every subscription.
func (r *Runner) Stop() { r.close() }

func (r *Runner) close() {
	r.closeOnce.Do(func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		close(r.done)
		for id, ch := range r.subs {
			delete(r.subs, id)
			close(ch)
		}
	})
}

// Start places the snake and the first food, then publishes the first frame.
func (r *Runner) Start(ctx context.Context) {
	if !r.game.HasNotStarted() {
		return
	}
	r.game.StartGame(r.opts.Width, r.opts.Height)

	s := r.state()
	if r.store != nil {
		best, err := highscore.Best(ctx, r.store, r.Difficulty.HighScoreKey())
		if err != nil {
			log.WithError(err).WithField("game", r.ID).Error("unable to read high score")
		}
		s.HighScore = best
	}
	r.publish(s)

	gamesStarted.WithLabelValues(r.Difficulty.String()).Inc()
	log.WithFields(log.Fields{
		"game":       r.ID,
		"difficulty": r.Difficulty.String(),
		"width":      r.opts.Width,
		"height":     r.opts.Height,
	}).Info("game started")
}

// Step advances the game by one frame and publishes the result.
func (r *Runner) Step(ctx context.Context) State {
	prev := r.Latest()
	if r.game.IsGameOver() {
		return prev
	}

	before := r.game.Score()
	r.game.Advance()
	framesAdvanced.Inc()
	if r.game.Score() > before {
		foodsEaten.Inc()
	}

	s := r.state()
	s.HighScore, s.NewHighScore = prev.HighScore, prev.NewHighScore
	if s.Frame.Score > s.HighScore {
		r.submit(ctx, &s)
	}
	if r.game.IsGameOver() {
		r.gameOver(&s)
	}
	r.publish(s)
	return s
}

// submit records a score that beats the best one seen so far, so the score
// survives the game being stopped before it ends.
func (r *Runner) submit(ctx context.Context, s *State) {
	if r.store == nil {
		return
	}
	key := r.Difficulty.HighScoreKey()
	fields := log.Fields{"game": r.ID, "score": s.Frame.Score}

	wrote, err := highscore.Submit(ctx, r.store, key, s.Frame.Score)
	if err != nil {
		log.WithError(err).WithFields(fields).Error("unable to submit high score")
		return
	}
	if wrote {
		if !s.NewHighScore {
			log.WithFields(fields).Info("new high score")
		}
		s.HighScore = s.Frame.Score
		s.NewHighScore = true
		return
	}

	// Another game beat us to it.
	best, err := highscore.Best(ctx, r.store, key)
	if err != nil {
		log.WithError(err).WithFields(fields).Error("unable to read high score")
		return
	}
	s.HighScore = best
}

func (r *Runner) gameOver(s *State) {
	death := r.game.Death()
	cause := ""
	if death != nil {
		cause = death.Cause
	}
	gameOvers.WithLabelValues(cause).Inc()

	log.WithFields(log.Fields{
		"game":           r.ID,
		"cause":          cause,
		"score":          s.Frame.Score,
		"tick":           s.Frame.Tick,
		"new_high_score": s.NewHighScore,
	}).Info("game over")
}

func (r *Runner) touch(p rules.Point) bool {
	if r.game.IsGameOver() {
		s := r.Latest()
		s.Dismissed = true
		r.publish(s)
		log.WithField("game", r.ID).Info("game dismissed")
		return true
	}
	r.game.Touched(p)
	prev := r.Latest()
	s := r.state()
	s.HighScore, s.NewHighScore = prev.HighScore, prev.NewHighScore
	r.publish(s)
	return false
}

// Run starts the game and advances it every interval until a tap dismisses the
// finished game, the runner is stopped or ctx is done. Run returns nil when
// dismissed and ErrAbandoned when a finished game is never tapped.
func (r *Runner) Run(ctx context.Context) error {
	defer r.close()
	r.Start(ctx)

	t := time.NewTicker(r.opts.Interval)
	defer t.Stop()

	// idle stays nil, and so never fires, until the game is over.
	var idle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.done:
			return ErrClosed
		case <-idle:
			log.WithField("game", r.ID).Info("game abandoned")
			return ErrAbandoned
		case p := <-r.touches:
			if r.touch(p) {
				return nil
			}
		case <-t.C:
			r.Step(ctx)
			if idle == nil && r.game.IsGameOver() {
				timer := time.NewTimer(r.opts.IdleTimeout)
				defer timer.Stop()
				idle = timer.C
			}
		}
	}
}

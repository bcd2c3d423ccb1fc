package commands

import (
	"context"
	"fmt"
	"io/ioutil"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/highscore/backend"
	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/battlesnakeio/gravitysnake/session"
	termbox "github.com/nsf/termbox-go"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	difficulty string
	seed       int64
	logFile    string
)

func init() {
	playCmd.Flags().StringVarP(&difficulty, "difficulty", "d", difficulty, "difficulty, as one of: [beginner, easy, medium, hard, insane], defaults to the last one played")
	playCmd.Flags().Int64Var(&seed, "seed", 0, "seed for food and wall placement, 0 picks one")
	playCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while playing")
	playCmd.Flags().StringVarP(&backendName, "backend", "b", backendName, "high score backend, as one of: ["+strings.Join(backend.Names, ", ")+"]")
	playCmd.Flags().StringVarP(&backendArgs, "backend-args", "a", backendArgs, "options to pass to the backend being used")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "play a game in the terminal",
	Run: func(c *cobra.Command, args []string) {
		store, closeStore, err := backend.Open(backendName, backendArgs)
		if err != nil {
			log.WithError(err).Fatal("unable to open high scores")
		}
		defer logClose(closeStore)

		d, err := chooseDifficulty(context.Background(), store, difficulty)
		if err != nil {
			log.WithError(err).Fatal("invalid difficulty")
		}

		s, err := play(d, store)
		if err != nil {
			log.WithError(err).Error("game failed")
			return
		}
		fmt.Printf("%s: scored %d, best %d\n", s.Difficulty, s.Frame.Score, s.HighScore)
	},
}

// chooseDifficulty parses flag, falling back to the difficulty played last
// when it is empty, and remembers the result for the next game.
func chooseDifficulty(ctx context.Context, store highscore.Store, flag string) (rules.Difficulty, error) {
	var (
		d   rules.Difficulty
		err error
	)
	if flag != "" {
		if d, err = rules.ParseDifficulty(flag); err != nil {
			return d, err
		}
	} else if d, err = highscore.LastDifficulty(ctx, store); err != nil {
		log.WithError(err).Warn("unable to read last difficulty")
	}

	if err := highscore.RememberDifficulty(ctx, store, d); err != nil {
		log.WithError(err).Warn("unable to remember difficulty")
	}
	return d, nil
}

// tilt simulates a gravity vector from key presses. Every press tips the board
// further towards the pressed side, so turns happen over a few presses.
type tilt struct {
	x, y float64
}

// push blends the direction (dx, dy) of the screen into the vector. The
// sensor x axis is mirrored relative to the screen.
func (t *tilt) push(dx, dy float64) {
	t.x = t.x/2 - dx
	t.y = t.y/2 + dy
	if n := math.Hypot(t.x, t.y); n > 1 {
		t.x, t.y = t.x/n, t.y/n
	}
}

func keyDirection(k termbox.Key) (dx, dy float64, ok bool) {
	switch k {
	case termbox.KeyArrowRight:
		return 1, 0, true
	case termbox.KeyArrowLeft:
		return -1, 0, true
	case termbox.KeyArrowUp:
		return 0, -1, true
	case termbox.KeyArrowDown:
		return 0, 1, true
	}
	return 0, 0, false
}

func isQuit(ev termbox.Event) bool {
	return ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q'
}

func isTap(ev termbox.Event) bool {
	return ev.Key == termbox.KeySpace || ev.Key == termbox.KeyEnter
}

func play(d rules.Difficulty, store highscore.Store) (session.State, error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return session.State{}, err
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		// Anything on stderr would tear the board.
		log.SetOutput(ioutil.Discard)
	}
	defer log.SetOutput(os.Stderr)

	if err := termbox.Init(); err != nil {
		return session.State{}, err
	}
	defer termbox.Close()

	w, h := termbox.Size()
	cols, rows := boardSize(w, h)

	var src rand.Source
	if seed != 0 {
		src = rand.NewSource(seed)
	}
	r := session.NewRunner(uuid.NewV4().String(), d, store, session.Options{
		Width:  float64(cols) * cellW,
		Height: float64(rows) * cellH,
		Source: src,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	states, unsubscribe := r.Subscribe()
	defer unsubscribe()

	errs := make(chan error, 1)
	go func() { errs <- r.Run(ctx) }()

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	var (
		last session.State
		t    tilt
	)
	for {
		select {
		case s, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			last = s
			if err := render(s, cols, rows); err != nil {
				return last, err
			}
		case ev := <-events:
			if ev.Type == termbox.EventError {
				return last, ev.Err
			}
			if ev.Type != termbox.EventKey {
				continue
			}
			switch {
			case isQuit(ev):
				cancel()
			case isTap(ev):
				head, _ := last.Frame.Head()
				if err := r.Touch(head); err != nil {
					log.WithError(err).Debug("tap dropped")
				}
			default:
				if dx, dy, ok := keyDirection(ev.Key); ok {
					t.push(dx, dy)
					r.Tilt(t.x, t.y)
				}
			}
		case err := <-errs:
			if err == context.Canceled || err == session.ErrAbandoned {
				err = nil
			}
			return r.Latest(), err
		}
	}
}

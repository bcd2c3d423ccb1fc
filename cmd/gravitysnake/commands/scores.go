package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/battlesnakeio/gravitysnake/highscore"
	"github.com/battlesnakeio/gravitysnake/highscore/backend"
	"github.com/battlesnakeio/gravitysnake/rules"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var raw bool

func init() {
	scoresCmd.Flags().BoolVar(&raw, "raw", false, "dump every stored entry")
	scoresCmd.Flags().StringVarP(&backendName, "backend", "b", backendName, "high score backend, as one of: ["+strings.Join(backend.Names, ", ")+"]")
	scoresCmd.Flags().StringVarP(&backendArgs, "backend-args", "a", backendArgs, "options to pass to the backend being used")
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "shows the high score of every difficulty",
	Run: func(c *cobra.Command, args []string) {
		store, closeStore, err := backend.Open(backendName, backendArgs)
		if err != nil {
			log.WithError(err).Fatal("unable to open high scores")
		}
		defer logClose(closeStore)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if raw {
			entries, err := highscore.Sorted(ctx, store)
			if err != nil {
				log.WithError(err).Error("unable to list high scores")
				return
			}
			spew.Dump(entries)
			return
		}

		lines, err := scoreLines(ctx, store)
		if err != nil {
			log.WithError(err).Error("unable to read high scores")
			return
		}
		for _, l := range lines {
			fmt.Println(l)
		}
	},
}

// logClose closes a store at the end of a command, where the error can only
// be reported.
func logClose(closeStore func() error) {
	if err := closeStore(); err != nil {
		log.WithError(err).Error("unable to close store")
	}
}

func scoreLines(ctx context.Context, store highscore.Store) ([]string, error) {
	lines := []string{}
	for _, d := range rules.Difficulties() {
		best, err := highscore.Best(ctx, store, d.HighScoreKey())
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%-10s %d", d, best))
	}
	return lines, nil
}

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/battlesnakeio/gravitysnake/api"
	"github.com/battlesnakeio/gravitysnake/highscore/backend"
	"github.com/battlesnakeio/gravitysnake/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	apiListen   = ":3005"
	promEnable  = true
	promListen  = ":9000"
	backendName = backend.InMem
	backendArgs = ""
)

// RootCmd serves games over http.
var RootCmd = &cobra.Command{
	Use:    "serve",
	Short:  "serve games to phones and browsers over http",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		store, closeStore, err := backend.Open(backendName, backendArgs)
		if err != nil {
			log.WithError(err).
				WithField("backend", backendName).
				Fatal("unable to start up backend store")
		}
		defer func() {
			if err := closeStore(); err != nil {
				log.WithError(err).Error("unable to close store")
			}
		}()

		s := api.New(apiListen, session.NewManager(store, session.Options{}), store)

		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			log.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Shutdown(ctx); err != nil {
				log.WithError(err).Warn("unclean shutdown")
			}
		}()
		s.WaitForExit()
	},
}

func init() {
	RootCmd.Flags().StringVarP(&apiListen, "listen", "l", apiListen, "api address to listen on")
	RootCmd.Flags().StringVarP(&backendName, "backend", "b", backendName, "high score backend, as one of: ["+strings.Join(backend.Names, ", ")+"]")
	RootCmd.Flags().StringVarP(&backendArgs, "backend-args", "a", backendArgs, "options to pass to the backend being used")
	RootCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	RootCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}

package highscore

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var (
	storeCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gravitysnake",
			Subsystem: "highscore",
			Name:      "calls",
			Help:      "Calls processed by the high score store.",
		},
		[]string{"method"},
	)
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return func() { t.ObserveDuration() }
}

func init() {
	prometheus.MustRegister(storeCalls)
}

type metrics struct{ s Store }

func (m *metrics) Get(c context.Context, key string) (int, error) {
	defer instrument("Get")()
	return m.s.Get(c, key)
}

func (m *metrics) Put(c context.Context, key string, score int) error {
	defer instrument("Put")()
	return m.s.Put(c, key, score)
}

func (m *metrics) PutIfHigher(c context.Context, key string, score int) (bool, error) {
	defer instrument("PutIfHigher")()
	return m.s.PutIfHigher(c, key, score)
}

func (m *metrics) List(c context.Context) (map[string]int, error) {
	defer instrument("List")()
	return m.s.List(c)
}

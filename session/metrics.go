package session

import "github.com/prometheus/client_golang/prometheus"

var (
	gamesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gravitysnake",
			Subsystem: "session",
			Name:      "games_started_total",
			Help:      "Games started, by difficulty.",
		},
		[]string{"difficulty"},
	)
	framesAdvanced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gravitysnake",
			Subsystem: "session",
			Name:      "frames_total",
			Help:      "Frames advanced across all games.",
		},
	)
	foodsEaten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gravitysnake",
			Subsystem: "session",
			Name:      "foods_eaten_total",
			Help:      "Food eaten across all games.",
		},
	)
	gameOvers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gravitysnake",
			Subsystem: "session",
			Name:      "game_overs_total",
			Help:      "Finished games, by cause of death.",
		},
		[]string{"cause"},
	)
	activeGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gravitysnake",
			Subsystem: "session",
			Name:      "active_games",
			Help:      "Games held by the manager.",
		},
	)
)

func init() {
	prometheus.MustRegister(gamesStarted, framesAdvanced, foodsEaten, gameOvers, activeGames)
}

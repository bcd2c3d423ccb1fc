package rules

// GameStatus is the state of a game session.
type GameStatus string

const (
	// GameStatusNotStarted represents a game waiting for StartGame
	GameStatusNotStarted GameStatus = "not-started"
	// GameStatusRunning represents a game being advanced every tick
	GameStatusRunning GameStatus = "running"
	// GameStatusOver represents a game that ended in a collision
	GameStatusOver GameStatus = "game-over"
)

package rules

const (
	// DeathCauseOutOfBounds is the death reason when the head leaves the play area
	DeathCauseOutOfBounds = "out-of-bounds"
	// DeathCauseSelfCollision is the death reason when the head runs into the body
	DeathCauseSelfCollision = "self-collision"
	// DeathCauseWallCollision is the death reason when the head hits a wall
	DeathCauseWallCollision = "wall-collision"
)

// Death records how and when a game ended.
type Death struct {
	Tick  int64  `json:"tick"`
	Cause string `json:"cause"`
}

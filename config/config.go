package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning the
// hosts that drive the game.
var (
	FrameInterval = time.Duration(getEnvInt("FRAME_MS", 16)) * time.Millisecond
	SensorRate    = rate.Limit(getEnvInt("SENSOR_RPS", 60))
	SensorBurst   = getEnvInt("SENSOR_BURST", 5)
	MaxOpenConns  = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns  = getEnvInt("MAX_IDLE_CONNS", 20)
	RedisHashKey  = getEnvString("REDIS_HASH_KEY", "gravitysnake:highscores")
	DpToPx        = getEnvFloat("DP_TO_PX", 1)
	// IdleTimeout is how long a finished game waits for the dismissing tap.
	IdleTimeout = time.Duration(getEnvInt("GAME_OVER_IDLE_S", 300)) * time.Second
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

func getEnvFloat(varName string, defaults float64) float64 {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return defaults
	}
	return f
}

func getEnvString(varName, defaults string) string {
	if val := os.Getenv(varName); val != "" {
		return val
	}
	return defaults
}

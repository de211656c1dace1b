package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInit_LevelFollowsDebugFlag(t *testing.T) {
	Init("miner-backend", false)
	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

	Init("miner-backend", true)
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}

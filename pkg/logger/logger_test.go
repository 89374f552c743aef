package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInit_Level(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	Init("production")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	t.Setenv("LOG_LEVEL", "bogus")
	Init("production")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

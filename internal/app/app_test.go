package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/humanbelnik/moviematch/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	debug := NewLogger(config.Log{Level: "debug", Format: "text"})
	assert.True(t, debug.Enabled(ctx, slog.LevelDebug))

	warn := NewLogger(config.Log{Level: "WARN", Format: "json"})
	assert.False(t, warn.Enabled(ctx, slog.LevelInfo))
	assert.True(t, warn.Enabled(ctx, slog.LevelWarn))

	fallback := NewLogger(config.Log{Level: "loud"})
	assert.True(t, fallback.Enabled(ctx, slog.LevelInfo))
	assert.False(t, fallback.Enabled(ctx, slog.LevelDebug))
}

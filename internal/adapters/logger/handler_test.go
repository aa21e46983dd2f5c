package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tally/internal/adapters/logger"
)

func newPretty(t *testing.T, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	return slog.New(logger.NewPrettyHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestPrettyHandler_Attributes(t *testing.T) {
	lg, buf := newPretty(t, slog.LevelInfo)

	lg.With("scope", "events").WithGroup("cache").Info("page loaded", "key", "events:a/page/1", "title", "Go meetup")

	assert.Equal(t, "page loaded scope=events cache.key=events:a/page/1 cache.title=\"Go meetup\"\n", buf.String())
}

func TestPrettyHandler_GroupAttrsAreFlattened(t *testing.T) {
	lg, buf := newPretty(t, slog.LevelInfo)

	lg.Warn("slow query", slog.Group("page", slog.Int("n", 2), slog.Int("records", 10)))

	assert.Equal(t, "! slow query page.n=2 page.records=10\n", buf.String())
}

func TestPrettyHandler_Levels(t *testing.T) {
	lg, buf := newPretty(t, slog.LevelWarn)

	lg.Info("hidden")
	lg.Error("broken")

	assert.Equal(t, "✗ broken\n", buf.String())
}

func TestPrettyHandler_WithAttrsDoesNotLeakIntoParent(t *testing.T) {
	lg, buf := newPretty(t, slog.LevelInfo)

	_ = lg.With("child", true)
	lg.Info("parent")

	assert.Equal(t, "parent\n", buf.String())
}

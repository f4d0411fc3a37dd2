package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/younsl/failover/internal/logging"
)

func TestLevelFor(t *testing.T) {
	r := require.New(t)

	r.Equal(slog.LevelWarn, logging.LevelFor(false, false))
	r.Equal(slog.LevelInfo, logging.LevelFor(true, false))
	r.Equal(slog.LevelDebug, logging.LevelFor(false, true))
	r.Equal(slog.LevelDebug, logging.LevelFor(true, true))
}

func TestLogger(t *testing.T) {
	t.Run("debug implies verbose", func(t *testing.T) {
		r := require.New(t)
		var out bytes.Buffer
		log := logging.New(&logging.Config{Level: logging.LevelFor(false, true), Output: &out})

		r.True(log.Verbose())
		log.Infof("starting %s", "i-123")
		log.Debug("state: running")
		r.Contains(out.String(), "starting i-123")
		r.Contains(out.String(), "state: running")
	})

	t.Run("quiet by default", func(t *testing.T) {
		r := require.New(t)
		var out bytes.Buffer
		log := logging.New(&logging.Config{Level: logging.LevelFor(false, false), Output: &out})

		r.False(log.Verbose())
		log.Info("hidden")
		log.Warn("shown")
		r.NotContains(out.String(), "hidden")
		r.Contains(out.String(), "shown")
	})

	t.Run("plain console lines", func(t *testing.T) {
		r := require.New(t)
		var out bytes.Buffer
		log := logging.New(&logging.Config{Level: slog.LevelDebug, Output: &out})

		log.Info("Stopping US-East-2 (Ohio) EC2 instance")
		log.Debugf("Server State: %s", "running")
		log.Warnf("Instance %s did not answer", "i-123")
		log.Error("boom")
		log.WithField("component", "prober").Info("probe")

		r.Equal("Stopping US-East-2 (Ohio) EC2 instance\n"+
			"Server State: running\n"+
			"WARN -- Instance i-123 did not answer\n"+
			"ERROR -- boom\n"+
			"probe component=prober\n", out.String())
		r.False(strings.Contains(out.String(), "level="))
	})

	t.Run("discard", func(t *testing.T) {
		r := require.New(t)
		r.False(logging.Discard().IsEnabled(slog.LevelError))
	})
}

func TestConsoleHandlerGroups(t *testing.T) {
	r := require.New(t)
	var out bytes.Buffer
	log := slog.New(logging.NewConsoleHandler(&out, slog.LevelInfo))

	log.WithGroup("ssh").With("host", "18.221.85.157").Info("connect", slog.Int("rc", 0))
	log.Debug("hidden")
	r.Equal("connect ssh.host=18.221.85.157 ssh.rc=0\n", out.String())
}

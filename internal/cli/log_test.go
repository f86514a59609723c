package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("phase complete") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("phase complete") },
			wantLog: true,
		},
		{
			name:    "warn at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Warn("layout cancelled") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Laid out 2 graph(s)")

	out := buf.String()
	if !strings.Contains(out, "Laid out 2 graph(s) (") {
		t.Errorf("progress.done() output = %q, want message with elapsed time", out)
	}
}

func TestLabelContext(t *testing.T) {
	if got := labelFromContext(context.Background()); got != "" {
		t.Errorf("labelFromContext(empty) = %q, want empty", got)
	}

	ctx := withLabel(context.Background(), "team.graph.json")
	if got := labelFromContext(ctx); got != "team.graph.json" {
		t.Errorf("labelFromContext = %q, want team.graph.json", got)
	}

	// Derived contexts keep the label.
	child, cancel := context.WithCancel(ctx)
	defer cancel()
	if got := labelFromContext(child); got != "team.graph.json" {
		t.Errorf("labelFromContext(child) = %q", got)
	}
}

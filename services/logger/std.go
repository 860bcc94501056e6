package logsvc

import (
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/aastu-its/interntrack/core"
)

// NewStdLogger returns the logger RollbarLogger echoes to.
// In debug it writes coloured lines through tint, tagged with component.
func NewStdLogger(conf *core.Config, component string) *log.Logger {
	return newStdLogger(os.Stdout, conf, component)
}

func newStdLogger(w io.Writer, conf *core.Config, component string) *log.Logger {
	if !conf.Debug {
		return log.New(w, component+" : ", log.LstdFlags|log.LUTC)
	}
	h := tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
		NoColor:    conf.TestMode,
	})
	return slog.NewLogLogger(h.WithAttrs([]slog.Attr{slog.String("component", component)}), slog.LevelInfo)
}

// NewDiscardLogger logs nowhere. Used by tests.
func NewDiscardLogger(conf *core.Config) *RollbarLogger {
	l := NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	l.Enable(false)
	return l
}

// Package tracelog provides the nil-safe slog helper shared by every
// layered device, adapted from github.com/soypat/lneto/internal's
// LogAttrs/LevelTrace helpers.
package tracelog

import (
	"context"
	"log/slog"

	"github.com/soypat/netsim"
)

// LevelTrace sits below slog.LevelDebug for the highest-detail byte-level
// traces (see netsim.VerbosityByte).
const LevelTrace slog.Level = slog.LevelDebug - 2

// Enabled reports whether l would emit a record at lvl. A nil logger is
// never enabled, letting callers skip building attrs entirely.
func Enabled(l *slog.Logger, lvl slog.Level) bool {
	return l != nil && l.Handler().Enabled(context.Background(), lvl)
}

// LogAttrs logs msg at lvl with attrs if l is non-nil and enabled at that
// level. Every layered device funnels its tracing through this so a nil
// logger compiles out to a single nil check.
func LogAttrs(l *slog.Logger, lvl slog.Level, msg string, attrs ...slog.Attr) {
	if l != nil {
		l.LogAttrs(context.Background(), lvl, msg, attrs...)
	}
}

// CategoryEnabled reports whether the process-wide netsim.Verbosity selects
// category, letting a call site skip building attrs for a trace category the
// operator didn't ask for (see netsim.GetVerbosity). Byte, Frame, and
// Transport are each gated independently rather than nested, since a
// scenario run at VerbosityFrame has no use for the Byte-level wire trace.
func CategoryEnabled(category netsim.Verbosity) bool {
	return netsim.GetVerbosity() == category
}

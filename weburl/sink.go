package weburl

import (
	"github.com/rs/zerolog"

	"github.com/pavlik/weburl/internal/scan"
)

// ValidationSink receives non-fatal parse diagnostics (spec.md §7
// "validation-warnings"). It is the same collaborator interface
// internal/scan.ValidationSink defines; re-exported here so callers never
// need to import internal packages.
type ValidationSink = scan.ValidationSink

// Warning is one diagnostic reported to a ValidationSink.
type Warning = scan.Warning

// NoopSink discards every warning; it is the default used by Parse when no
// sink is supplied.
type NoopSink = scan.NoopSink

// ZerologSink logs every warning through github.com/rs/zerolog at Debug
// level, matching the event-based `.Debug().Str(...).Msg(...)` idiom
// cloudflare-cloudflared uses for its own diagnostic logging — the closest
// structured logger in the retrieved pack to what a parse-diagnostics sink
// wants.
type ZerologSink struct {
	Logger zerolog.Logger
}

// NewZerologSink wraps logger as a ValidationSink.
func NewZerologSink(logger zerolog.Logger) ZerologSink {
	return ZerologSink{Logger: logger}
}

func (s ZerologSink) Report(w Warning) {
	s.Logger.Debug().Str("kind", w.Kind).Str("detail", w.Detail).Msg("weburl: validation warning")
}

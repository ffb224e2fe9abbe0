// Package logging provides component loggers and context fields for mdlabel.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger derived from the global logger with a component
// identifier. Uses the "cmp" key for consistency with zerolog conventions.
// Events logged with a context carry the fields set by WithSessionID and
// WithDocument.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}

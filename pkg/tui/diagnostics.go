// ABOUTME: Diagnostic is the runtime's structured event record; Sink is where diagnostics are delivered.
// ABOUTME: NewZerologSink backs the default sink with zerolog, matching internal/log's structured-logging stack.

package tui

import "github.com/rs/zerolog"

// Severity classifies a Diagnostic for filtering and sink routing.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Diagnostic is a single structured event the runtime or a component
// wants surfaced: a dropped frame, a config parse failure, an unexpected
// surface transaction, a recovered panic in a component's Render.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Context  map[string]any
}

// Sink is where Diagnostics are delivered. The runtime holds exactly one
// Sink at a time, defaulting to NewZerologSink wrapping internal/log's
// logger.
type Sink interface {
	Emit(d Diagnostic)
}

// zerologSink adapts zerolog.Logger to Sink.
type zerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink returns a Sink that writes each Diagnostic as a
// structured zerolog event: Code as the "code" field, Context merged in
// verbatim, Message as the event message, and Severity selecting the
// zerolog level.
func NewZerologSink(logger zerolog.Logger) Sink {
	return zerologSink{logger: logger}
}

func (s zerologSink) Emit(d Diagnostic) {
	ev := s.event(d.Severity)
	ev = ev.Str("code", d.Code)
	for k, v := range d.Context {
		ev = ev.Interface(k, v)
	}
	ev.Msg(d.Message)
}

func (s zerologSink) event(sev Severity) *zerolog.Event {
	switch sev {
	case SeverityDebug:
		return s.logger.Debug()
	case SeverityWarn:
		return s.logger.Warn()
	case SeverityError:
		return s.logger.Error()
	default:
		return s.logger.Info()
	}
}

// discardSink drops every Diagnostic. Used when a caller explicitly opts
// out of diagnostics rather than leaving the runtime without a Sink.
type discardSink struct{}

func (discardSink) Emit(Diagnostic) {}

// DiscardSink returns a Sink that drops every Diagnostic.
func DiscardSink() Sink { return discardSink{} }

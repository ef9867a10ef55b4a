package transport

import "github.com/rs/zerolog"

// LogRecorder implements ports.RequestRecorder by emitting each raw
// exchange to the structured log: sizes at debug, full payloads at trace.
type LogRecorder struct {
	log zerolog.Logger
}

func NewLogRecorder(log zerolog.Logger) *LogRecorder {
	return &LogRecorder{log: log.With().Str("component", "recorder").Logger()}
}

// Record implements ports.RequestRecorder.
func (r *LogRecorder) Record(operation string, request, response []byte) {
	r.log.Debug().
		Str("operation", operation).
		Int("request_bytes", len(request)).
		Int("response_bytes", len(response)).
		Msg("carrier exchange")
	if r.log.GetLevel() <= zerolog.TraceLevel {
		r.log.Trace().
			Str("operation", operation).
			Str("request", string(request)).
			Str("response", string(response)).
			Msg("carrier exchange payload")
	}
}

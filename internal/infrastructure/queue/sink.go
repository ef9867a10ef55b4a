package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

// LogSink is the default TrackingSink: it emits one structured line per
// refreshed shipment. Deployments that push updates downstream replace it.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "refresh_sink").Logger()}
}

// Deliver implements ports.TrackingSink.
func (s *LogSink) Deliver(_ context.Context, job ports.TrackingRefreshJob, result *domain.TrackingResponse) {
	line := s.log.Info().
		Str("carrier", job.CarrierName).
		Str("tracking_number", job.TrackingNumber).
		Bool("success", result.Success)
	if result.Tracking != nil {
		line = line.
			Str("status", string(result.Tracking.Status)).
			Bool("delivered", result.Tracking.Delivered).
			Bool("exception", result.Tracking.Exception)
	}
	line.Msg("tracking refreshed")
}

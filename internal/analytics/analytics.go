package analytics

import (
	"context"

	"github.com/xaenox/helpdesk-bot/internal/models"
	"go.uber.org/zap"
)

// Sink receives one event per handled message. Implementations are
// best-effort: a failed Log is reported to the caller for logging and
// otherwise ignored, it never blocks or fails message delivery.
type Sink interface {
	Log(ctx context.Context, event models.Event) error
	Close() error
}

// LogSink writes events to the process log. It is the default sink when
// no database is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Log(_ context.Context, event models.Event) error {
	s.logger.Info("analytics event",
		zap.String("event_id", event.ID),
		zap.Int64("user_id", event.UserID),
		zap.String("username", event.Username),
		zap.Int("tokens", event.Tokens),
		zap.Int64("latency_ms", event.LatencyMS))
	return nil
}

func (s *LogSink) Close() error {
	return nil
}

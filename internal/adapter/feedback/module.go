package feedback

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/stampcard/internal/config"
)

// Module provides the feedback sink. Without a configured endpoint the
// events land in the application log.
var Module = fx.Provide(newSink)

func newSink(cfg *config.Config, logger *slog.Logger) (Sink, error) {
	if cfg.FeedbackAddress == "" {
		return NewLogSink(logger), nil
	}
	return NewHTTPClient(cfg.FeedbackAddress, logger)
}

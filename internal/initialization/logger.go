package initialization

import "github.com/rs/zerolog"

// QueueLogger writes the task queue's logs through zerolog. Params are key/value pairs, as with slog.
type QueueLogger struct {
	log zerolog.Logger
}

func NewQueueLogger(l zerolog.Logger) QueueLogger {
	return QueueLogger{log: l.With().Str("component", "queue").Logger()}
}

func (q QueueLogger) Info(message string, params ...any) {
	q.log.Info().Fields(params).Msg(message)
}

func (q QueueLogger) Error(message string, params ...any) {
	q.log.Error().Fields(params).Msg(message)
}

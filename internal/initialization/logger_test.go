package initialization

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestQueueLogger(t *testing.T) {
	tests := []struct {
		name  string
		log   func(QueueLogger)
		level zerolog.Level
		want  map[string]any
	}{
		{
			name: "info",
			log: func(l QueueLogger) {
				l.Info("task processed", "queue", "Avatar", "attempts", 2)
			},
			want: map[string]any{
				"level":     "info",
				"component": "queue",
				"message":   "task processed",
				"queue":     "Avatar",
				"attempts":  float64(2),
			},
		},
		{
			name: "error",
			log: func(l QueueLogger) {
				l.Error("task failed", "queue", "Avatar")
			},
			want: map[string]any{
				"level":     "error",
				"component": "queue",
				"message":   "task failed",
				"queue":     "Avatar",
			},
		},
		{
			name: "below level",
			log: func(l QueueLogger) {
				l.Info("task processed")
			},
			level: zerolog.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewQueueLogger(zerolog.New(&buf).Level(tt.level))
			tt.log(l)

			if tt.want == nil {
				if buf.Len() != 0 {
					t.Errorf("expected nothing logged, got %s", buf.String())
				}
				return
			}

			var got map[string]any
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("invalid log line %q: %v", buf.String(), err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("log line mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

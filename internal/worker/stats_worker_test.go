package worker

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewStatsWorkerFlushInterval(t *testing.T) {
	log := zerolog.Nop()

	t.Run("configured interval is honored", func(t *testing.T) {
		w := NewStatsWorker(nil, nil, log, 15*time.Second)
		if w.flushInterval != 15*time.Second {
			t.Errorf("flushInterval = %v, want 15s", w.flushInterval)
		}
	})

	t.Run("non-positive interval falls back to default", func(t *testing.T) {
		for _, d := range []time.Duration{0, -time.Second} {
			w := NewStatsWorker(nil, nil, log, d)
			if w.flushInterval != StatsBatchTimeout {
				t.Errorf("flushInterval for %v = %v, want %v", d, w.flushInterval, StatsBatchTimeout)
			}
		}
	})
}

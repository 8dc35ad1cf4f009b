package store

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// patchMetrics times the stages of one Patch call for debug logging.
type patchMetrics struct {
	logger       *log.Logger
	start        time.Time
	mutateDone   time.Time
	encodeDone   time.Time
	saveDone     time.Time
	encodedBytes int
}

func newPatchMetrics(logger *log.Logger) *patchMetrics {
	return &patchMetrics{logger: logger, start: time.Now()}
}

func (m *patchMetrics) ObserveMutate() {
	m.mutateDone = time.Now()
}

func (m *patchMetrics) ObserveEncode(bytes int) {
	m.encodeDone = time.Now()
	if bytes > 0 {
		m.encodedBytes = bytes
	}
}

func (m *patchMetrics) ObserveSave() {
	m.saveDone = time.Now()
}

func (m *patchMetrics) Log(err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"total_ms": durationToMillis(time.Since(m.start)),
		"bytes":    m.encodedBytes,
	}
	if !m.mutateDone.IsZero() {
		fields["mutate_ms"] = durationToMillis(m.mutateDone.Sub(m.start))
	}
	if !m.encodeDone.IsZero() && !m.mutateDone.IsZero() {
		fields["encode_ms"] = durationToMillis(m.encodeDone.Sub(m.mutateDone))
	}
	if !m.saveDone.IsZero() && !m.encodeDone.IsZero() {
		fields["save_ms"] = durationToMillis(m.saveDone.Sub(m.encodeDone))
	}
	if err != nil {
		fields["error"] = err.Error()
		m.logger.WithFields(fields).Error("store.patch.metrics")
		return
	}
	m.logger.WithFields(fields).Debug("store.patch.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

package daemon

import (
	"bytes"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// DefaultDeliveryInterval is the stream's flush cadence.
const DefaultDeliveryInterval = time.Second

// StreamConfig holds delivery stream configuration.
type StreamConfig struct {
	DeliveryInterval time.Duration // How often a pending event is flushed (default 1s)
}

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		DeliveryInterval: DefaultDeliveryInterval,
	}
}

// Stream decouples detector notifications from the consumer's cadence.
// It holds one pending payload: a newer Record overwrites an undelivered
// one, so only the latest state between two flushes reaches the sink.
type Stream struct {
	config    StreamConfig
	scheduler domain.Scheduler
	logger    *zap.Logger

	mu      sync.Mutex
	pending []byte
	dirty   bool
	sink    domain.Sink
	timer   domain.Timer
}

// NewStream creates a stream with no sink attached.
func NewStream(config StreamConfig, scheduler domain.Scheduler, logger *zap.Logger) *Stream {
	if config.DeliveryInterval <= 0 {
		config.DeliveryInterval = DefaultDeliveryInterval
	}
	return &Stream{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Record captures state as its wire payload. A payload identical to the
// last recorded one is ignored.
func (s *Stream) Record(state domain.DisplayState) {
	payload := domain.EncodeEvent(state)

	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes.Equal(payload, s.pending) {
		return
	}
	s.pending = payload
	s.dirty = true
}

// Attach sets the sink and arms the delivery timer if needed.
// Nothing is flushed until the next delivery tick.
func (s *Stream) Attach(sink domain.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sink = sink
	if s.timer == nil {
		s.timer = s.scheduler.Every(s.config.DeliveryInterval, s.flush)
		s.logger.Debug("event stream attached",
			zap.Duration("delivery_interval", s.config.DeliveryInterval))
	}
}

// Detach clears the sink and disarms the delivery timer. Idempotent.
func (s *Stream) Detach() {
	s.mu.Lock()
	s.sink = nil
	t := s.timer
	s.timer = nil
	s.mu.Unlock()

	if t != nil {
		t.Cancel()
		s.logger.Debug("event stream detached")
	}
}

// Close detaches the sink.
func (s *Stream) Close() {
	s.Detach()
}

// Attached reports whether a sink is connected.
func (s *Stream) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink != nil
}

// Pending returns the buffered payload and whether it is still undelivered.
func (s *Stream) Pending() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.pending...), s.dirty
}

func (s *Stream) flush() {
	s.mu.Lock()
	if !s.dirty || s.sink == nil {
		s.mu.Unlock()
		return
	}
	payload := s.pending
	sink := s.sink
	s.dirty = false
	s.mu.Unlock()

	sink.Send(payload)
}

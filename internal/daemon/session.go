package daemon

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// Host method names and argument keys.
const (
	MethodStartListening = "startListening"
	MethodStopListening  = "stopListening"

	ArgPollingIntervalMs = "pollingIntervalMs"
	ArgCustomProcesses   = "customProcesses"

	ReplyListeningStarted = "Listening started"
	ReplyListeningStopped = "Listening stopped"
)

// ErrNotImplemented is returned for unknown host methods.
var ErrNotImplemented = errors.New("method not implemented")

// SessionConfig holds session configuration.
type SessionConfig struct {
	Detector DetectorConfig
	Stream   StreamConfig
}

// DefaultSessionConfig returns default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Detector: DefaultDetectorConfig(),
		Stream:   DefaultStreamConfig(),
	}
}

// ListenOptions are the parameters of a startListening call.
type ListenOptions struct {
	PollInterval    time.Duration
	CustomProcesses []string
}

// Session is the host-facing bridge: method calls drive the detector,
// listen/cancel attach the consumer to the stream.
type Session struct {
	detector *Detector
	stream   *Stream
	logger   *zap.Logger

	closeOnce sync.Once
}

// NewSession wires a detector into a stream and records the default state,
// so a consumer that listens before startListening still gets one event.
func NewSession(
	config SessionConfig,
	processes domain.ScreenShareScanner,
	topology domain.TopologyScanner,
	denylists domain.DenylistProvider,
	scheduler domain.Scheduler,
	logger *zap.Logger,
) *Session {
	stream := NewStream(config.Stream, scheduler, logger)
	detector := NewDetector(config.Detector, processes, topology, denylists, scheduler, stream.Record, logger)
	stream.Record(domain.DefaultDisplayState())

	return &Session{
		detector: detector,
		stream:   stream,
		logger:   logger,
	}
}

// HandleMethodCall dispatches a host method call.
func (s *Session) HandleMethodCall(method string, args map[string]any) (string, error) {
	switch method {
	case MethodStartListening:
		s.StartListening(ParseListenArgs(args))
		return ReplyListeningStarted, nil
	case MethodStopListening:
		s.StopListening()
		return ReplyListeningStopped, nil
	default:
		s.logger.Debug("unknown method", zap.String("method", method))
		return "", ErrNotImplemented
	}
}

// StartListening starts detection. No-op when already listening.
func (s *Session) StartListening(opts ListenOptions) {
	s.detector.Start(opts.PollInterval, opts.CustomProcesses)
}

// StopListening stops detection. Idempotent.
func (s *Session) StopListening() {
	s.detector.Stop()
}

// Listening reports whether detection is running.
func (s *Session) Listening() bool {
	return s.detector.Running()
}

// Listen attaches the consumer's sink.
func (s *Session) Listen(sink domain.Sink) {
	s.stream.Attach(sink)
}

// Cancel detaches the consumer's sink.
func (s *Session) Cancel() {
	s.stream.Detach()
}

// Detector exposes the underlying detector.
func (s *Session) Detector() *Detector {
	return s.detector
}

// Close stops detection and detaches the consumer. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.stream.Close()
		s.detector.Close()
	})
}

// ParseListenArgs reads startListening arguments. A missing or non-positive
// interval yields zero (the detector default); non-string or blank process
// entries are dropped.
func ParseListenArgs(args map[string]any) ListenOptions {
	var opts ListenOptions
	if args == nil {
		return opts
	}

	if ms, ok := positiveMillis(args[ArgPollingIntervalMs]); ok {
		opts.PollInterval = time.Duration(ms) * time.Millisecond
	}

	switch list := args[ArgCustomProcesses].(type) {
	case []string:
		for _, name := range list {
			opts.CustomProcesses = appendName(opts.CustomProcesses, name)
		}
	case []any:
		for _, item := range list {
			if name, ok := item.(string); ok {
				opts.CustomProcesses = appendName(opts.CustomProcesses, name)
			}
		}
	}

	return opts
}

func appendName(names []string, name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return names
	}
	return append(names, name)
}

func positiveMillis(v any) (int64, bool) {
	var ms int64
	switch n := v.(type) {
	case int:
		ms = int64(n)
	case int32:
		ms = int64(n)
	case int64:
		ms = n
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		ms = int64(n)
	case uint32:
		ms = int64(n)
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64/float64(time.Millisecond) {
			return 0, false
		}
		ms = int64(n)
	default:
		return 0, false
	}
	if ms <= 0 || ms > math.MaxInt64/int64(time.Millisecond) {
		return 0, false
	}
	return ms, true
}

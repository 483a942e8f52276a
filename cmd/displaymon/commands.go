package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/config"
	"github.com/eliteGoblin/focusd/display_mon/internal/daemon"
	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
	"github.com/eliteGoblin/focusd/display_mon/internal/infra"
	"github.com/eliteGoblin/focusd/display_mon/internal/logging"
	"github.com/eliteGoblin/focusd/display_mon/internal/policy"
	"github.com/eliteGoblin/focusd/display_mon/internal/usecase"
)

// stack is the wired set of scanners shared by watch and scan.
type stack struct {
	registry   *policy.Registry
	connectors domain.ConnectorSource
	processes  *usecase.ProcessScanner
	topology   *usecase.TopologyScanner
}

func newStack(logger *zap.Logger) *stack {
	connectors := infra.NewConnectorSource()
	return &stack{
		registry:   policy.NewRegistry(),
		connectors: connectors,
		processes:  usecase.NewProcessScanner(infra.NewProcessLister(), logger),
		topology:   usecase.NewTopologyScanner(connectors, logger),
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	if err := config.Bind(cmd, v); err != nil {
		return config.Config{}, err
	}
	return config.Load(v), nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	var journal domain.EventJournal
	if cfg.Journal {
		j, err := infra.OpenJournal(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() { _ = j.Close() }()
		journal = j
	}

	s := newStack(logger)
	loop := daemon.NewLoop()
	defer loop.Close()

	instances := registerInstance(cfg, logger)
	if instances != nil {
		defer func() { _ = instances.Clear() }()
		heartbeat := loop.Every(heartbeatInterval, func() {
			if err := instances.Touch(nil); err != nil {
				logger.Debug("heartbeat failed", zap.Error(err))
			}
		})
		defer heartbeat.Cancel()
	}

	session := daemon.NewSession(daemon.SessionConfig{
		Detector: daemon.DetectorConfig{PollInterval: cfg.PollInterval},
		Stream:   daemon.StreamConfig{DeliveryInterval: cfg.DeliveryInterval},
	}, s.processes, s.topology, s.registry, loop, logger)
	defer session.Close()

	sink := newEventSink(cmd.OutOrStdout(), journal, logger)
	sink.instances = instances
	session.Listen(sink)
	session.StartListening(daemon.ListenOptions{
		PollInterval:    cfg.PollInterval,
		CustomProcesses: cfg.CustomProcesses,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("received shutdown signal")
	return nil
}

const heartbeatInterval = 30 * time.Second

// registerInstance records this watch process for 'displaymon status'.
// Failure only disables status reporting.
func registerInstance(cfg config.Config, logger *zap.Logger) domain.InstanceRegistry {
	registry, err := infra.NewFileInstanceRegistry()
	if err != nil {
		logger.Warn("instance registry unavailable", zap.Error(err))
		return nil
	}

	now := time.Now().Unix()
	err = registry.Register(domain.Instance{
		PID:            os.Getpid(),
		StartedAt:      now,
		LastHeartbeat:  now,
		PollIntervalMs: cfg.PollInterval.Milliseconds(),
		AppVersion:     Version,
	})
	if err != nil {
		logger.Warn("failed to register instance", zap.Error(err))
		return nil
	}
	return registry
}

// eventSink prints each payload as a line, and optionally journals it and
// records it as the instance's last event.
type eventSink struct {
	mu        sync.Mutex
	out       io.Writer
	journal   domain.EventJournal
	instances domain.InstanceRegistry
	logger    *zap.Logger
	now       func() time.Time
}

func newEventSink(out io.Writer, journal domain.EventJournal, logger *zap.Logger) *eventSink {
	return &eventSink{out: out, journal: journal, logger: logger, now: time.Now}
}

func (s *eventSink) Send(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.out, "%s\n", payload); err != nil {
		s.logger.Warn("failed to write event", zap.Error(err))
	}

	if s.instances != nil {
		if err := s.instances.Touch(payload); err != nil {
			s.logger.Debug("failed to record last event", zap.Error(err))
		}
	}

	if s.journal == nil {
		return
	}
	state, err := domain.DecodeEvent(payload)
	if err != nil {
		s.logger.Warn("failed to decode event for journal", zap.Error(err))
		return
	}
	if err := s.journal.Append(state, s.now()); err != nil {
		s.logger.Warn("failed to journal event", zap.Error(err))
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	s := newStack(logger)
	deny := s.registry.Denylist(cfg.CustomProcesses)
	out := cmd.OutOrStdout()

	if !verbose {
		state := domain.NewDisplayState(s.topology.Scan(), s.processes.ScreenShared(deny))
		_, err := fmt.Fprintf(out, "%s\n", domain.EncodeEvent(state))
		return err
	}

	connectors, cerr := s.connectors.Connectors()
	matches := s.processes.Matches(deny)
	state := domain.NewDisplayState(usecase.Summarize(connectors), len(matches) > 0)

	printScanReport(out, s.connectors.Name(), connectors, cerr, matches, state)
	return nil
}

func printScanReport(out io.Writer, source string, connectors []domain.Connector, cerr error,
	matches []domain.ProcessInfo, state domain.DisplayState) {
	fmt.Fprintln(out, "\n=== Display Scan ===")
	fmt.Fprintf(out, "Source: %s\n", source)
	if cerr != nil {
		fmt.Fprintf(out, "Connector error: %v\n", cerr)
	}

	fmt.Fprintln(out, "\nConnectors:")
	if len(connectors) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, c := range connectors {
		status := "disconnected"
		if c.Connected {
			status = "connected"
		}
		fmt.Fprintf(out, "  - %-24s %-12s %s\n", c.Name, status, usecase.Classify(c.Name))
	}

	fmt.Fprintln(out, "\nScreen-sharing processes:")
	if len(matches) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, p := range matches {
		fmt.Fprintf(out, "  - %s (pid %d)\n", p.Name, p.PID)
	}

	fmt.Fprintf(out, "\nState: %s\n", domain.EncodeEvent(state))
	fmt.Fprintln(out, "====================")
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	registry := policy.NewRegistry()

	fmt.Fprintln(out, "\n=== Screen-Sharing Applications ===")
	for _, p := range registry.GetAll() {
		fmt.Fprintf(out, "\n[%s] %s (%s)\n", p.ID(), p.Name(), p.Category())
		fmt.Fprintln(out, "  Processes:")
		for _, name := range p.ProcessNames() {
			fmt.Fprintf(out, "    - %s\n", name)
		}
	}

	fold := "exact"
	if registry.Builtin().FoldCase() {
		fold = "case-insensitive"
	}
	fmt.Fprintf(out, "\nMatching: %s\n", fold)
	fmt.Fprintln(out, "===================================")
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	path, _ := cmd.Flags().GetString(config.KeyJournalPath)

	journal, err := infra.OpenJournal(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	entries, err := journal.Recent(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No events recorded. Run 'displaymon watch --journal' to record some.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s\n", e.ObservedAt.Local().Format(time.RFC3339), domain.EncodeEvent(e.State))
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	registry, err := infra.NewFileInstanceRegistry()
	if err != nil {
		return err
	}
	return printStatus(cmd.OutOrStdout(), registry, time.Now())
}

func printStatus(out io.Writer, registry domain.InstanceRegistry, now time.Time) error {
	fmt.Fprintln(out, "\n=== displaymon Status ===")

	inst, err := registry.Get()
	if err != nil {
		return err
	}
	alive, err := registry.IsAlive()
	if err != nil {
		return err
	}
	if inst == nil || !alive {
		fmt.Fprintln(out, "Status: NOT RUNNING")
		fmt.Fprintln(out, "\nRun 'displaymon watch' to start monitoring.")
		return nil
	}

	fmt.Fprintln(out, "Status: RUNNING")
	fmt.Fprintf(out, "PID: %d\n", inst.PID)
	if inst.AppVersion != "" {
		fmt.Fprintf(out, "Version: %s\n", inst.AppVersion)
	}
	fmt.Fprintf(out, "Poll interval: %s\n", time.Duration(inst.PollIntervalMs)*time.Millisecond)
	if inst.LastHeartbeat > 0 {
		lastBeat := time.Unix(inst.LastHeartbeat, 0)
		fmt.Fprintf(out, "Last heartbeat: %s ago\n", now.Sub(lastBeat).Round(time.Second))
	}
	if len(inst.LastEvent) > 0 {
		fmt.Fprintf(out, "Last event: %s\n", inst.LastEvent)
	}
	fmt.Fprintln(out, "=========================")
	return nil
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		_ = json.NewEncoder(out).Encode(versionInfo{Version: Version, Commit: Commit, BuildTime: BuildTime})
		return
	}
	fmt.Fprintf(out, "displaymon %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
}

var _ domain.Sink = (*eventSink)(nil)

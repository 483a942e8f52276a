//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/daemon"
	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
	"github.com/eliteGoblin/focusd/display_mon/internal/infra"
	"github.com/eliteGoblin/focusd/display_mon/internal/policy"
	"github.com/eliteGoblin/focusd/display_mon/internal/usecase"
	"github.com/eliteGoblin/focusd/display_mon/test/fixtures"
)

var _ = Describe("Session", func() {
	var (
		sched   *fixtures.ManualScheduler
		topo    *fixtures.ScriptedTopology
		procs   *fixtures.ScriptedProcesses
		sink    *fixtures.RecordingSink
		session *daemon.Session
	)

	const poll = 2 * time.Second

	deliver := func() { sched.Fire(daemon.DefaultDeliveryInterval) }
	poll1 := func() { sched.Fire(poll) }

	BeforeEach(func() {
		sched = fixtures.NewManualScheduler()
		topo = fixtures.NewScriptedTopology()
		procs = fixtures.NewScriptedProcesses("bash")
		sink = &fixtures.RecordingSink{}

		registry := policy.NewRegistryWithPolicies(
			policy.AppPolicy{AppID: "zoom", AppName: "Zoom", Group: policy.CategoryConferencing, Binaries: []string{"zoom"}},
		).WithFoldCase(true)
		session = daemon.NewSession(daemon.DefaultSessionConfig(), procs, topo, registry, sched, zap.NewNop())
		session.Listen(sink)
	})

	AfterEach(func() {
		session.Close()
	})

	Describe("startListening", func() {
		It("should deliver each distinct state once", func() {
			_, err := session.HandleMethodCall(daemon.MethodStartListening, map[string]any{
				daemon.ArgPollingIntervalMs: float64(poll.Milliseconds()),
			})
			Expect(err).NotTo(HaveOccurred())
			deliver()

			topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 2})
			poll1()
			deliver()

			poll1()
			deliver()

			procs.SetRunning("bash", "zoom")
			poll1()
			deliver()

			Expect(sink.Payloads()).To(Equal([]string{
				`{"is_screen_mirrored":false,"is_external_display_connected":false,"display_count":1,"is_screen_shared":false}`,
				`{"is_screen_mirrored":false,"is_external_display_connected":true,"display_count":2,"is_screen_shared":false}`,
				`{"is_screen_mirrored":false,"is_external_display_connected":true,"display_count":2,"is_screen_shared":true}`,
			}))
		})

		It("should coalesce changes between deliveries", func() {
			session.StartListening(daemon.ListenOptions{PollInterval: poll})
			deliver()

			topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 2})
			poll1()
			topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 3, Mirrored: true})
			poll1()
			deliver()

			payloads := sink.Payloads()
			Expect(payloads).To(HaveLen(2))
			state, err := domain.DecodeEvent([]byte(payloads[1]))
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(domain.DisplayState{IsExternalConnected: true, DisplayCount: 3, IsMirrored: true}))
		})

		It("should match custom processes alongside built-ins", func() {
			procs.SetRunning("FOO")
			session.StartListening(daemon.ListenOptions{PollInterval: poll, CustomProcesses: []string{"foo"}})

			Expect(session.Detector().Last().IsScreenShared).To(BeTrue())
			Expect(procs.LastDenylist().Contains("zoom")).To(BeTrue())
		})
	})

	Describe("stopListening", func() {
		It("should stop polling but keep the last pending event", func() {
			session.StartListening(daemon.ListenOptions{PollInterval: poll})
			reply, err := session.HandleMethodCall(daemon.MethodStopListening, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply).To(Equal(daemon.ReplyListeningStopped))

			scans := topo.Scans()
			Expect(sched.Fire(poll)).To(BeZero())
			Expect(topo.Scans()).To(Equal(scans))

			deliver()
			Expect(sink.Payloads()).To(HaveLen(1))
		})
	})
})

var _ = Describe("Linux DRM topology", func() {
	var root string

	connector := func(entry, status string) {
		dir := filepath.Join(root, entry)
		Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "status"), []byte(status+"\n"), 0644)).To(Succeed())
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
	})

	It("should report a laptop with an HDMI monitor as external", func() {
		connector("card0-eDP-1", "connected")
		connector("card0-HDMI-A-1", "connected")
		connector("card0-DP-1", "disconnected")

		scanner := usecase.NewTopologyScanner(infra.NewDRMSource(root), zap.NewNop())
		Expect(scanner.Scan()).To(Equal(domain.Topology{ExternalConnected: true, DisplayCount: 2}))
	})

	It("should fall back to one display when nothing is readable", func() {
		scanner := usecase.NewTopologyScanner(infra.NewDRMSource(filepath.Join(root, "missing")), zap.NewNop())
		Expect(scanner.Scan()).To(Equal(domain.DefaultTopology()))
	})
})

var _ = Describe("Journal", func() {
	var journal *infra.GormJournal

	BeforeEach(func() {
		var err error
		journal, err = infra.OpenJournal(filepath.Join(GinkgoT().TempDir(), "displaymon.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(journal.Close()).To(Succeed())
	})

	It("should record delivered events from a session sink", func() {
		sched := fixtures.NewManualScheduler()
		topo := fixtures.NewScriptedTopology()
		session := daemon.NewSession(daemon.DefaultSessionConfig(), fixtures.NewScriptedProcesses(), topo,
			fixtures.StaticDenylists{}, sched, zap.NewNop())
		defer session.Close()

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		n := 0
		session.Listen(domain.SinkFunc(func(payload []byte) {
			state, err := domain.DecodeEvent(payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(journal.Append(state, base.Add(time.Duration(n)*time.Minute))).To(Succeed())
			n++
		}))

		session.StartListening(daemon.ListenOptions{PollInterval: 5 * time.Second})
		sched.Fire(daemon.DefaultDeliveryInterval)
		topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 2})
		sched.Fire(5 * time.Second)
		sched.Fire(daemon.DefaultDeliveryInterval)

		entries, err := journal.Recent(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].State.DisplayCount).To(Equal(2))
		Expect(entries[1].State).To(Equal(domain.DefaultDisplayState()))
	})
})

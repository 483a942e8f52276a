//go:build windows

package infra

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplayMonitors      = user32.NewProc("EnumDisplayMonitors")
	procGetDisplayConfigBufSizes = user32.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig       = user32.NewProc("QueryDisplayConfig")

	// windows.NewCallback slots are never released; create the enum proc once.
	monitorEnumProc = windows.NewCallback(func(_, _, _, data uintptr) uintptr {
		atomic.AddInt32((*int32)(unsafe.Pointer(data)), 1)
		return 1
	})
)

const qdcOnlyActivePaths = 0x00000002

// DISPLAYCONFIG_VIDEO_OUTPUT_TECHNOLOGY values.
const (
	techOther                = 0xFFFFFFFF
	techHD15                 = 0
	techSVideo               = 1
	techCompositeVideo       = 2
	techComponentVideo       = 3
	techDVI                  = 4
	techHDMI                 = 5
	techLVDS                 = 6
	techDJPN                 = 8
	techSDI                  = 9
	techDisplayPortExternal  = 10
	techDisplayPortEmbedded  = 11
	techUDIExternal          = 12
	techUDIEmbedded          = 13
	techSDTVDongle           = 14
	techMiracast             = 15
	techIndirectWired        = 16
	techIndirectVirtual      = 17
	techDisplayPortUSBTunnel = 18
	techInternal             = 0x80000000
)

var technologyNames = map[uint32]string{
	techOther:                "OTHER",
	techHD15:                 "HD15",
	techSVideo:               "SVIDEO",
	techCompositeVideo:       "COMPOSITE",
	techComponentVideo:       "COMPONENT",
	techDVI:                  "DVI",
	techHDMI:                 "HDMI",
	techLVDS:                 "LVDS",
	techDJPN:                 "D_JPN",
	techSDI:                  "SDI",
	techDisplayPortExternal:  "DISPLAYPORT_EXTERNAL",
	techDisplayPortEmbedded:  "DISPLAYPORT_EMBEDDED",
	techUDIExternal:          "UDI_EXTERNAL",
	techUDIEmbedded:          "UDI_EMBEDDED",
	techSDTVDongle:           "SDTVDONGLE",
	techMiracast:             "MIRACAST",
	techIndirectWired:        "INDIRECT_WIRED",
	techIndirectVirtual:      "INDIRECT_VIRTUAL",
	techDisplayPortUSBTunnel: "DISPLAYPORT_USB_TUNNEL",
	techInternal:             "INTERNAL",
}

type displayConfigPathSourceInfo struct {
	AdapterID   windows.LUID
	ID          uint32
	ModeInfoIdx uint32
	StatusFlags uint32
}

type displayConfigPathTargetInfo struct {
	AdapterID        windows.LUID
	ID               uint32
	ModeInfoIdx      uint32
	OutputTechnology uint32
	Rotation         uint32
	Scaling          uint32
	RefreshRateNum   uint32
	RefreshRateDen   uint32
	ScanLineOrdering uint32
	TargetAvailable  int32
	StatusFlags      uint32
}

type displayConfigPathInfo struct {
	Source displayConfigPathSourceInfo
	Target displayConfigPathTargetInfo
	Flags  uint32
}

type displayConfigModeInfo struct {
	InfoType  uint32
	ID        uint32
	AdapterID windows.LUID
	Info      [6]uint64
}

// DisplayConfigSource names active display paths by output technology.
// When the DisplayConfig API is unavailable it falls back to counting monitors.
type DisplayConfigSource struct{}

// NewDisplayConfigSource creates the Windows connector source.
func NewDisplayConfigSource() *DisplayConfigSource {
	return &DisplayConfigSource{}
}

func (s *DisplayConfigSource) Name() string {
	return "displayconfig"
}

func (s *DisplayConfigSource) Connectors() ([]domain.Connector, error) {
	connectors, err := s.activePaths()
	if err == nil && len(connectors) > 0 {
		return connectors, nil
	}
	return s.monitors()
}

func (s *DisplayConfigSource) activePaths() ([]domain.Connector, error) {
	var pathCount, modeCount uint32
	r, _, _ := procGetDisplayConfigBufSizes.Call(
		qdcOnlyActivePaths,
		uintptr(unsafe.Pointer(&pathCount)),
		uintptr(unsafe.Pointer(&modeCount)))
	if r != 0 {
		return nil, fmt.Errorf("GetDisplayConfigBufferSizes: %w", windows.Errno(r))
	}
	if pathCount == 0 {
		return nil, nil
	}

	paths := make([]displayConfigPathInfo, pathCount)
	modes := make([]displayConfigModeInfo, max(modeCount, 1))
	r, _, _ = procQueryDisplayConfig.Call(
		qdcOnlyActivePaths,
		uintptr(unsafe.Pointer(&pathCount)),
		uintptr(unsafe.Pointer(&paths[0])),
		uintptr(unsafe.Pointer(&modeCount)),
		uintptr(unsafe.Pointer(&modes[0])),
		0)
	if r != 0 {
		return nil, fmt.Errorf("QueryDisplayConfig: %w", windows.Errno(r))
	}

	out := make([]domain.Connector, 0, pathCount)
	for i, p := range paths[:pathCount] {
		name, ok := technologyNames[p.Target.OutputTechnology]
		if !ok {
			name = technologyNames[techOther]
		}
		out = append(out, domain.Connector{
			Name:      fmt.Sprintf("%s-%d", name, i),
			Connected: true,
		})
	}
	return out, nil
}

// monitors reports the first monitor as PRIMARY and the rest as SECONDARY.
func (s *DisplayConfigSource) monitors() ([]domain.Connector, error) {
	var count int32
	r, _, err := procEnumDisplayMonitors.Call(0, 0, monitorEnumProc, uintptr(unsafe.Pointer(&count)))
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", err)
	}

	out := make([]domain.Connector, 0, count)
	for i := int32(0); i < count; i++ {
		name := "SECONDARY"
		if i == 0 {
			name = "PRIMARY"
		}
		out = append(out, domain.Connector{
			Name:      fmt.Sprintf("%s-%d", name, i+1),
			Connected: true,
		})
	}
	return out, nil
}

// NewConnectorSource returns the platform's display connector source.
func NewConnectorSource() domain.ConnectorSource {
	return NewDisplayConfigSource()
}

// Ensure DisplayConfigSource implements domain.ConnectorSource.
var _ domain.ConnectorSource = (*DisplayConfigSource)(nil)

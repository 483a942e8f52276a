// Package policy holds the built-in screen-sharing application policies.
// Each policy names the executables whose presence means the screen may be
// shared or recorded.
package policy

import "runtime"

// Category groups sharing applications by how they expose the screen.
type Category string

const (
	CategoryConferencing  Category = "conferencing"
	CategoryRecording     Category = "recording"
	CategoryCaptureHelper Category = "capture-helper"
)

// FoldCase is true on platforms whose process names are case-insensitive.
const FoldCase = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// SharingPolicy describes one application that can share or record the screen.
type SharingPolicy interface {
	// ID returns unique identifier (e.g., "zoom", "obs").
	ID() string

	// Name returns human-readable name for display.
	Name() string

	// Category returns the policy's group.
	Category() Category

	// ProcessNames returns executable names as the OS reports them.
	ProcessNames() []string
}

// AppPolicy is a static SharingPolicy.
type AppPolicy struct {
	AppID    string
	AppName  string
	Group    Category
	Binaries []string
}

func (p AppPolicy) ID() string             { return p.AppID }
func (p AppPolicy) Name() string           { return p.AppName }
func (p AppPolicy) Category() Category     { return p.Group }
func (p AppPolicy) ProcessNames() []string { return append([]string(nil), p.Binaries...) }

// Ensure AppPolicy implements SharingPolicy.
var _ SharingPolicy = AppPolicy{}

//go:build !linux && !windows

package policy

// builtinPolicies lists sharing apps by their macOS process names.
func builtinPolicies() []SharingPolicy {
	return []SharingPolicy{
		AppPolicy{AppID: "zoom", AppName: "Zoom", Group: CategoryConferencing, Binaries: []string{"zoom.us"}},
		AppPolicy{AppID: "zoom-host", AppName: "Zoom sharing host", Group: CategoryCaptureHelper, Binaries: []string{"CptHost"}},
		AppPolicy{AppID: "teams", AppName: "Microsoft Teams", Group: CategoryConferencing, Binaries: []string{"Microsoft Teams", "MSTeams"}},
		AppPolicy{AppID: "slack", AppName: "Slack", Group: CategoryConferencing, Binaries: []string{"Slack"}},
		AppPolicy{AppID: "discord", AppName: "Discord", Group: CategoryConferencing, Binaries: []string{"Discord"}},
		AppPolicy{AppID: "obs", AppName: "OBS Studio", Group: CategoryRecording, Binaries: []string{"obs"}},
		AppPolicy{AppID: "ffmpeg", AppName: "FFmpeg", Group: CategoryRecording, Binaries: []string{"ffmpeg"}},
		AppPolicy{AppID: "screencapture", AppName: "macOS screen capture", Group: CategoryCaptureHelper, Binaries: []string{"screencaptureui"}},
	}
}

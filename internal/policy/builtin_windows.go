package policy

// builtinPolicies lists sharing apps by their executable image names.
func builtinPolicies() []SharingPolicy {
	return []SharingPolicy{
		AppPolicy{AppID: "zoom", AppName: "Zoom", Group: CategoryConferencing, Binaries: []string{"Zoom.exe"}},
		AppPolicy{AppID: "zoom-host", AppName: "Zoom sharing host", Group: CategoryCaptureHelper, Binaries: []string{"CptHost.exe"}},
		AppPolicy{AppID: "teams", AppName: "Microsoft Teams", Group: CategoryConferencing, Binaries: []string{"Teams.exe", "ms-teams.exe"}},
		AppPolicy{AppID: "slack", AppName: "Slack", Group: CategoryConferencing, Binaries: []string{"slack.exe"}},
		AppPolicy{AppID: "discord", AppName: "Discord", Group: CategoryConferencing, Binaries: []string{"Discord.exe"}},
		AppPolicy{AppID: "obs", AppName: "OBS Studio", Group: CategoryRecording, Binaries: []string{"obs64.exe", "obs32.exe"}},
		AppPolicy{AppID: "ffmpeg", AppName: "FFmpeg", Group: CategoryRecording, Binaries: []string{"ffmpeg.exe"}},
	}
}

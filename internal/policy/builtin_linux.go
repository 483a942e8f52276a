package policy

// builtinPolicies lists sharing apps by their /proc comm names.
func builtinPolicies() []SharingPolicy {
	return []SharingPolicy{
		AppPolicy{AppID: "zoom", AppName: "Zoom", Group: CategoryConferencing, Binaries: []string{"zoom"}},
		AppPolicy{AppID: "teams", AppName: "Microsoft Teams", Group: CategoryConferencing, Binaries: []string{"teams", "teams-for-linux"}},
		AppPolicy{AppID: "slack", AppName: "Slack", Group: CategoryConferencing, Binaries: []string{"slack"}},
		AppPolicy{AppID: "discord", AppName: "Discord", Group: CategoryConferencing, Binaries: []string{"discord"}},
		AppPolicy{AppID: "obs", AppName: "OBS Studio", Group: CategoryRecording, Binaries: []string{"obs"}},
		AppPolicy{AppID: "ffmpeg", AppName: "FFmpeg", Group: CategoryRecording, Binaries: []string{"ffmpeg"}},
		AppPolicy{AppID: "simplescreenrecorder", AppName: "SimpleScreenRecorder", Group: CategoryRecording, Binaries: []string{"simplescreenrecorder"}},
		AppPolicy{AppID: "kazam", AppName: "Kazam", Group: CategoryRecording, Binaries: []string{"kazam"}},
		AppPolicy{AppID: "peek", AppName: "Peek", Group: CategoryRecording, Binaries: []string{"peek"}},
		AppPolicy{AppID: "recordmydesktop", AppName: "recordMyDesktop", Group: CategoryRecording, Binaries: []string{"recordmydesktop"}},
		AppPolicy{AppID: "vokoscreen", AppName: "vokoscreen", Group: CategoryRecording, Binaries: []string{"vokoscreen"}},
	}
}

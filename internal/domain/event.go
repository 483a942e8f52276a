package domain

import (
	"encoding/json"
	"fmt"
)

// Event is the outward-facing wire form of a DisplayState.
// Field names and order are a compatibility contract with consumers.
type Event struct {
	IsScreenMirrored           bool `json:"is_screen_mirrored"`
	IsExternalDisplayConnected bool `json:"is_external_display_connected"`
	DisplayCount               int  `json:"display_count"`
	IsScreenShared             bool `json:"is_screen_shared"`
}

// EventFromState converts a state to its wire form.
func EventFromState(s DisplayState) Event {
	return Event{
		IsScreenMirrored:           s.IsMirrored,
		IsExternalDisplayConnected: s.IsExternalConnected,
		DisplayCount:               clampDisplayCount(s.DisplayCount),
		IsScreenShared:             s.IsScreenShared,
	}
}

// State converts the wire form back to a DisplayState.
func (e Event) State() DisplayState {
	return DisplayState{
		IsExternalConnected: e.IsExternalDisplayConnected,
		DisplayCount:        clampDisplayCount(e.DisplayCount),
		IsMirrored:          e.IsScreenMirrored,
		IsScreenShared:      e.IsScreenShared,
	}
}

// EncodeEvent renders a state as the wire JSON object.
func EncodeEvent(s DisplayState) []byte {
	// Marshal of a flat struct of bools and an int cannot fail.
	b, _ := json.Marshal(EventFromState(s))
	return b
}

// DecodeEvent parses a wire JSON object.
func DecodeEvent(payload []byte) (DisplayState, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return DefaultDisplayState(), fmt.Errorf("decode display event: %w", err)
	}
	return e.State(), nil
}

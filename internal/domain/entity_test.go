package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewDisplayState_FloorsDisplayCount verifies the count never drops below one
func TestNewDisplayState_FloorsDisplayCount(t *testing.T) {
	for _, n := range []int{-3, 0, 1} {
		s := NewDisplayState(Topology{DisplayCount: n}, false)
		assert.Equal(t, 1, s.DisplayCount, "count %d", n)
	}

	s := NewDisplayState(Topology{ExternalConnected: true, DisplayCount: 3, Mirrored: true}, true)
	assert.Equal(t, DisplayState{
		IsExternalConnected: true,
		DisplayCount:        3,
		IsMirrored:          true,
		IsScreenShared:      true,
	}, s)
}

func TestDisplayState_Equal(t *testing.T) {
	a := DisplayState{IsExternalConnected: true, DisplayCount: 2}
	b := DisplayState{IsExternalConnected: true, DisplayCount: 2}
	c := DisplayState{IsExternalConnected: true, DisplayCount: 2, IsScreenShared: true}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, DefaultDisplayState().Equal(NewDisplayState(DefaultTopology(), false)))
}

// TestDenylist_FoldCase verifies case-insensitive lookups when folding is on
func TestDenylist_FoldCase(t *testing.T) {
	d := NewDenylist(true, "Zoom.exe", "obs64.exe")

	assert.True(t, d.Contains("zoom.exe"))
	assert.True(t, d.Contains("ZOOM.EXE"))
	assert.True(t, d.Contains("OBS64.exe"))
	assert.False(t, d.Contains("bar.exe"))
	assert.True(t, d.FoldCase())
}

// TestDenylist_ExactCase verifies exact lookups when folding is off
func TestDenylist_ExactCase(t *testing.T) {
	d := NewDenylist(false, "zoom")

	assert.True(t, d.Contains("zoom"))
	assert.False(t, d.Contains("Zoom"))
}

// TestDenylist_DropsBlankEntries verifies malformed entries are skipped
func TestDenylist_DropsBlankEntries(t *testing.T) {
	d := NewDenylist(false, "", "   ", " foo ", "foo")

	assert.Equal(t, 1, d.Len())
	assert.True(t, d.Contains("foo"))
	assert.False(t, d.Contains(""))
}

// TestDenylist_Union verifies union leaves the receiver untouched
func TestDenylist_Union(t *testing.T) {
	base := NewDenylist(true, "zoom")
	merged := base.Union("foo", "")

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, merged.Len())
	assert.True(t, merged.Contains("FOO"))
	assert.True(t, merged.Contains("zoom"))
	assert.False(t, merged.Contains("bar"))
	assert.Equal(t, []string{"foo", "zoom"}, merged.Names())
}

func TestDenylist_ZeroValue(t *testing.T) {
	var d Denylist
	assert.False(t, d.Contains("zoom"))
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Names())
}

func TestConnectorKind_String(t *testing.T) {
	assert.Equal(t, "builtin", KindBuiltin.String())
	assert.Equal(t, "external", KindExternal.String())
	assert.Equal(t, "wireless", KindWireless.String())
	assert.Equal(t, "ignored", KindIgnored.String())
}

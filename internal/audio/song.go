package audio

import "fmt"

// Handle is an opaque reference to a track's audio asset.
type Handle string

// Song is a playable track with its timing info.
type Song struct {
	ID     string
	Title  string
	Handle Handle
	Info   AudioInfo
}

// String returns a short description used in logs and the menu.
func (s Song) String() string {
	return fmt.Sprintf("%s (%g BPM %s)", s.Title, float64(s.Info.Tempo), s.Info.Metre)
}

// SongRegistry holds the currently selected song and reports changes to it.
// Changes are detected by comparing against the value seen at the previous
// Poll, so dependents are notified once per change however often Set is called.
type SongRegistry struct {
	current *Song
	seen    *Song
}

// NewSongRegistry returns an empty registry.
func NewSongRegistry() *SongRegistry {
	return &SongRegistry{}
}

// Set replaces the current song.
func (r *SongRegistry) Set(s Song) {
	r.current = &s
}

// Clear removes the current song.
func (r *SongRegistry) Clear() {
	r.current = nil
}

// Current returns the current song, if any.
func (r *SongRegistry) Current() (Song, bool) {
	if r.current == nil {
		return Song{}, false
	}
	return *r.current, true
}

// Poll reports whether the current song differs from the one seen at the
// previous Poll and returns it. A change to "no song" reports ok=false with
// changed=true.
func (r *SongRegistry) Poll() (s Song, ok bool, changed bool) {
	changed = !sameSong(r.current, r.seen)
	if changed {
		if r.current == nil {
			r.seen = nil
		} else {
			cp := *r.current
			r.seen = &cp
		}
	}
	s, ok = r.Current()
	return s, ok, changed
}

func sameSong(a, b *Song) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

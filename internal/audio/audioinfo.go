// Package audio implements the metronome-driven audio subsystem: note-length
// math, repeating note timers, the metronome that aggregates them, the
// playback state machine and the conductor that ties them to a song.
//
// Nothing in this package talks to a sound device. Audio output is reached
// through the Channel interface so the timing logic stays pure and testable.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors reported by the audio subsystem.
var (
	// ErrInvalidTempo is returned when tempo is not a positive finite BPM.
	ErrInvalidTempo = errors.New("audio: invalid tempo")
	// ErrInvalidMetre is returned when either side of the metre is not positive.
	ErrInvalidMetre = errors.New("audio: invalid metre")
	// ErrNoActiveSong is reported for playback commands that have no song to act on.
	ErrNoActiveSong = errors.New("audio: no active song")
	// ErrSingletonMissing is reported when the metronome is ticked before startup.
	ErrSingletonMissing = errors.New("audio: metronome missing")
)

// Tempo is the song speed in beats per minute.
type Tempo float64

// Valid reports whether the tempo can be used for duration math.
func (t Tempo) Valid() bool {
	f := float64(t)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// SecondsPerBeat returns the length of one beat in seconds.
func (t Tempo) SecondsPerBeat() (float64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %v bpm", ErrInvalidTempo, float64(t))
	}
	beatsPerSecond := float64(t) / 60
	return 1 / beatsPerSecond, nil
}

// Metre is a time signature. Top is the number of beats per measure,
// Bottom the note value that receives one beat (4 = quarter note).
type Metre struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
}

// Valid reports whether both sides of the metre are positive.
func (m Metre) Valid() bool {
	return m.Top > 0 && m.Bottom > 0
}

// String returns the metre in the usual "4/4" notation.
func (m Metre) String() string {
	return fmt.Sprintf("%d/%d", m.Top, m.Bottom)
}

// ParseMetre parses "top/bottom" notation such as "3/4" or "6/8".
func ParseMetre(s string) (Metre, error) {
	var m Metre
	if _, err := fmt.Sscanf(s, "%d/%d", &m.Top, &m.Bottom); err != nil {
		return Metre{}, fmt.Errorf("%w: %q", ErrInvalidMetre, s)
	}
	if !m.Valid() {
		return Metre{}, fmt.Errorf("%w: %q", ErrInvalidMetre, s)
	}
	return m, nil
}

// AudioInfo describes the timing of one track. Section lengths are counted in
// measures; Intro and Outro are optional and zero when absent.
type AudioInfo struct {
	Tempo Tempo `yaml:"tempo"`
	Metre Metre `yaml:"metre"`
	Intro int   `yaml:"intro,omitempty"`
	Body  int   `yaml:"body"`
	Outro int   `yaml:"outro,omitempty"`
}

// Validate checks tempo and metre. Section lengths may not be negative.
func (i AudioInfo) Validate() error {
	if !i.Tempo.Valid() {
		return fmt.Errorf("%w: %v bpm", ErrInvalidTempo, float64(i.Tempo))
	}
	if !i.Metre.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMetre, i.Metre)
	}
	if i.Intro < 0 || i.Body < 0 || i.Outro < 0 {
		return fmt.Errorf("audio: negative section length (intro=%d body=%d outro=%d)", i.Intro, i.Body, i.Outro)
	}
	return nil
}

// Measures returns the total number of measures across all sections.
func (i AudioInfo) Measures() int {
	return i.Intro + i.Body + i.Outro
}

// Length returns the playing time of the whole track.
func (i AudioInfo) Length() (time.Duration, error) {
	measure, err := Measure.Length(i)
	if err != nil {
		return 0, err
	}
	n := time.Duration(i.Measures())
	if n > 0 && measure > math.MaxInt64/n {
		return 0, fmt.Errorf("%w: %d measures of %v overflow the track length", ErrInvalidTempo, n, measure)
	}
	return measure * n, nil
}

// SectionAt returns which section the given measure index (0-based) falls in.
func (i AudioInfo) SectionAt(measure int) Section {
	switch {
	case measure < 0:
		return SectionNone
	case measure < i.Intro:
		return SectionIntro
	case measure < i.Intro+i.Body:
		return SectionBody
	case measure < i.Measures():
		return SectionOutro
	default:
		return SectionNone
	}
}

// Section names a part of a track.
type Section int

const (
	SectionNone Section = iota
	SectionIntro
	SectionBody
	SectionOutro
)

func (s Section) String() string {
	switch s {
	case SectionIntro:
		return "intro"
	case SectionBody:
		return "body"
	case SectionOutro:
		return "outro"
	default:
		return "none"
	}
}

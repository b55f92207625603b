package audio

import (
	"fmt"
	"math"
	"time"
)

// NoteKind is a musical subdivision tracked by the metronome.
type NoteKind int

const (
	Whole NoteKind = iota
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
	Measure

	numNoteKinds
)

// NoteKinds lists every subdivision in metronome order.
var NoteKinds = [numNoteKinds]NoteKind{Whole, Half, Quarter, Eighth, Sixteenth, ThirtySecond, Measure}

// String returns a human-readable name for the note kind.
func (k NoteKind) String() string {
	switch k {
	case Whole:
		return "whole"
	case Half:
		return "half"
	case Quarter:
		return "quarter"
	case Eighth:
		return "eighth"
	case Sixteenth:
		return "sixteenth"
	case ThirtySecond:
		return "thirty-second"
	case Measure:
		return "measure"
	default:
		return "unknown"
	}
}

// Length returns the real-time duration of one note of this kind.
//
// Note values are relative to the metre's bottom number: a whole note lasts
// Bottom beats and each subdivision halves the previous one, so the note that
// receives one beat always lasts exactly one beat. Measure lasts Top beats.
func (k NoteKind) Length(info AudioInfo) (time.Duration, error) {
	spb, err := info.Tempo.SecondsPerBeat()
	if err != nil {
		return 0, err
	}
	if !info.Metre.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMetre, info.Metre)
	}

	whole := float64(info.Metre.Bottom) * spb

	var seconds float64
	switch k {
	case Whole:
		seconds = whole
	case Half:
		seconds = whole / 2
	case Quarter:
		seconds = whole / 4
	case Eighth:
		seconds = whole / 8
	case Sixteenth:
		seconds = whole / 16
	case ThirtySecond:
		seconds = whole / 32
	case Measure:
		seconds = float64(info.Metre.Top) * spb
	default:
		return 0, fmt.Errorf("audio: unknown note kind %d", int(k))
	}

	ns := seconds * float64(time.Second)
	if ns >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v bpm makes a %s too long to represent", ErrInvalidTempo, float64(info.Tempo), k)
	}
	return time.Duration(ns), nil
}

// Divisor returns how many notes of this kind fit in a whole note.
// Measure has no fixed divisor and returns 0.
func (k NoteKind) Divisor() int {
	switch k {
	case Whole:
		return 1
	case Half:
		return 2
	case Quarter:
		return 4
	case Eighth:
		return 8
	case Sixteenth:
		return 16
	case ThirtySecond:
		return 32
	default:
		return 0
	}
}

// BeatKind returns the subdivision that lasts exactly one beat in the metre.
// It fails when the bottom number is not a note value the metronome tracks.
func BeatKind(m Metre) (NoteKind, bool) {
	for _, k := range NoteKinds {
		if d := k.Divisor(); d != 0 && d == m.Bottom {
			return k, true
		}
	}
	return Whole, false
}

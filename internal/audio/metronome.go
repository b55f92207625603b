package audio

import "time"

// Fires holds per-subdivision fire counts for one metronome tick.
type Fires [numNoteKinds]int

// Of returns the fire count for a note kind.
func (f Fires) Of(k NoteKind) int {
	if k < 0 || k >= numNoteKinds {
		return 0
	}
	return f[k]
}

// Any reports whether any subdivision fired.
func (f Fires) Any() bool {
	for _, n := range f {
		if n > 0 {
			return true
		}
	}
	return false
}

// FireFunc is called once per subdivision that fired during a tick.
type FireFunc func(kind NoteKind, count int)

// Metronome owns one NoteTimer per subdivision and advances them together.
// It is created once and updated in place when the song changes.
type Metronome struct {
	info      AudioInfo
	timers    [numNoteKinds]*NoteTimer
	listeners []FireFunc
}

// NewMetronome builds a metronome for the given timing info. Invalid info
// yields disabled timers rather than an error.
func NewMetronome(info AudioInfo) *Metronome {
	m := &Metronome{info: info}
	for _, k := range NoteKinds {
		m.timers[k] = NewNoteTimer(k, info)
	}
	return m
}

// OnFire registers a callback invoked after each tick for every subdivision
// that fired, in NoteKinds order.
func (m *Metronome) OnFire(fn FireFunc) {
	m.listeners = append(m.listeners, fn)
}

// Tick advances every timer by elapsed and returns the fire counts.
func (m *Metronome) Tick(elapsed time.Duration) Fires {
	var fires Fires
	for _, k := range NoteKinds {
		fires[k] = m.timers[k].Tick(elapsed)
	}
	for _, k := range NoteKinds {
		if fires[k] == 0 {
			continue
		}
		for _, fn := range m.listeners {
			fn(k, fires[k])
		}
	}
	return fires
}

// Update re-targets every timer to new timing info. The first computation
// error is returned; all timers are updated regardless.
func (m *Metronome) Update(info AudioInfo) error {
	m.info = info
	var first error
	for _, k := range NoteKinds {
		if err := m.timers[k].Update(info); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Reset rewinds all timers to a downbeat.
func (m *Metronome) Reset() {
	for _, t := range m.timers {
		t.Reset()
	}
}

// Timer returns the timer for a subdivision, or nil for an unknown kind.
func (m *Metronome) Timer(k NoteKind) *NoteTimer {
	if k < 0 || k >= numNoteKinds {
		return nil
	}
	return m.timers[k]
}

// Info returns the timing info the metronome was last updated with.
func (m *Metronome) Info() AudioInfo {
	return m.info
}

// Beat returns the timer that fires once per beat, if the metre has one.
func (m *Metronome) Beat() (*NoteTimer, bool) {
	k, ok := BeatKind(m.info.Metre)
	if !ok {
		return nil, false
	}
	return m.timers[k], true
}

// Position returns the number of completed measures and the 0-based beat
// within the current measure.
func (m *Metronome) Position() (measure int, beat int) {
	measure = int(m.timers[Measure].Total())
	if t, ok := m.Beat(); ok && m.info.Metre.Top > 0 {
		beat = int(t.Total() % uint64(m.info.Metre.Top))
	}
	return measure, beat
}

package audio

import "time"

// NoteTimer is a repeating countdown bound to one NoteKind.
//
// A timer whose period cannot be computed (zero tempo, bad metre) is
// disabled: it keeps running without error but never fires.
type NoteTimer struct {
	kind    NoteKind
	period  time.Duration // 0 means disabled
	elapsed time.Duration
	fired   int    // fires during the last Tick
	total   uint64 // fires since creation or Reset
	err     error  // last period computation error
}

// NewNoteTimer creates a repeating timer with period kind.Length(info).
func NewNoteTimer(kind NoteKind, info AudioInfo) *NoteTimer {
	t := &NoteTimer{kind: kind}
	t.setPeriod(info)
	return t
}

func (t *NoteTimer) setPeriod(info AudioInfo) {
	period, err := t.kind.Length(info)
	if err != nil || period <= 0 {
		t.period = 0
		t.err = err
		return
	}
	t.period = period
	t.err = nil
}

// Tick advances the timer and returns how many times it completed.
// Several completions in one tick are collapsed into the returned count; the
// leftover time carries into the next period.
func (t *NoteTimer) Tick(elapsed time.Duration) int {
	t.fired = 0
	if t.period <= 0 || elapsed <= 0 {
		return 0
	}

	t.elapsed += elapsed
	if t.elapsed >= t.period {
		t.fired = int(t.elapsed / t.period)
		t.elapsed %= t.period
		t.total += uint64(t.fired)
	}
	return t.fired
}

// Update recomputes the period from new timing info. Elapsed progress is kept
// as is, so only the time remaining until the next fire changes. It returns
// the computation error when the timer becomes disabled.
func (t *NoteTimer) Update(info AudioInfo) error {
	t.setPeriod(info)
	return t.err
}

// Reset rewinds the timer to the start of a period and clears counters.
func (t *NoteTimer) Reset() {
	t.elapsed = 0
	t.fired = 0
	t.total = 0
}

// Kind returns the subdivision this timer tracks.
func (t *NoteTimer) Kind() NoteKind { return t.kind }

// Period returns the current period; zero when disabled.
func (t *NoteTimer) Period() time.Duration { return t.period }

// Elapsed returns progress into the current period.
func (t *NoteTimer) Elapsed() time.Duration { return t.elapsed }

// Disabled reports whether the timer can never fire.
func (t *NoteTimer) Disabled() bool { return t.period <= 0 }

// Err returns why the timer is disabled, if it is.
func (t *NoteTimer) Err() error { return t.err }

// JustFinished reports whether the timer fired during the last Tick.
func (t *NoteTimer) JustFinished() bool { return t.fired > 0 }

// TimesFinishedThisTick returns the fire count of the last Tick.
func (t *NoteTimer) TimesFinishedThisTick() int { return t.fired }

// Total returns the number of fires since creation or the last Reset.
func (t *NoteTimer) Total() uint64 { return t.total }

// Remaining returns the time until the next fire. If progress already exceeds
// the period (after Update shortened it) the result is zero.
func (t *NoteTimer) Remaining() time.Duration {
	if t.period <= 0 {
		return 0
	}
	if t.elapsed >= t.period {
		return 0
	}
	return t.period - t.elapsed
}

// Fraction returns progress through the current period in [0, 1].
func (t *NoteTimer) Fraction() float64 {
	if t.period <= 0 {
		return 0
	}
	f := float64(t.elapsed) / float64(t.period)
	if f > 1 {
		return 1
	}
	return f
}

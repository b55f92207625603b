package combat

import (
	"time"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
)

// WindowPercent is the on-beat window on each side of a beat, as a
// percentage of the beat period.
const WindowPercent = 15

// Verdict is the judgement of a single press.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictPerfect
	VerdictEarly
	VerdictLate
	VerdictMiss
)

func (v Verdict) String() string {
	switch v {
	case VerdictPerfect:
		return "PERFECT"
	case VerdictEarly:
		return "EARLY"
	case VerdictLate:
		return "LATE"
	case VerdictMiss:
		return "MISS"
	default:
		return ""
	}
}

// Hit reports whether the verdict counts as a hit.
func (v Verdict) Hit() bool {
	return v == VerdictPerfect || v == VerdictEarly || v == VerdictLate
}

// Judge rates a press against the beat timer. The offset is negative before
// the beat and positive after it. A disabled timer yields VerdictNone.
func Judge(beat *audio.NoteTimer) (Verdict, time.Duration) {
	if beat == nil || beat.Disabled() {
		return VerdictNone, 0
	}

	period := beat.Period()
	offset := beat.Elapsed()
	if offset > period/2 {
		offset -= period
	}

	window := period * WindowPercent / 100
	abs := offset
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs > window:
		return VerdictMiss, offset
	case abs <= window/3:
		return VerdictPerfect, offset
	case offset < 0:
		return VerdictEarly, offset
	default:
		return VerdictLate, offset
	}
}

// Tally keeps the running score of a combat run.
type Tally struct {
	Hits       int
	Misses     int
	Streak     int
	BestStreak int
	Score      int
}

// Add records a verdict. Hits are worth 100 points times a multiplier that
// grows by one every eight consecutive hits; perfect hits earn 50% more.
func (t *Tally) Add(v Verdict) {
	switch {
	case v.Hit():
		t.Hits++
		t.Streak++
		t.BestStreak = max(t.BestStreak, t.Streak)
		points := 100 * (1 + t.Streak/8)
		if v == VerdictPerfect {
			points += points / 2
		}
		t.Score += points
	case v == VerdictMiss:
		t.Misses++
		t.Streak = 0
	}
}

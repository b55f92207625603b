package audio

import (
	"errors"
	"testing"
	"time"
)

var fourFour = AudioInfo{Tempo: 120, Metre: Metre{Top: 4, Bottom: 4}}

func TestNoteTimerFiresOncePerPeriod(t *testing.T) {
	timer := NewNoteTimer(Quarter, fourFour)
	if timer.Period() != 500*time.Millisecond {
		t.Fatalf("Period() = %v, expected 500ms", timer.Period())
	}

	fires := 0
	for i := 0; i < 4; i++ {
		n := timer.Tick(500 * time.Millisecond)
		if n != 1 {
			t.Errorf("tick %d fired %d times, expected 1", i, n)
		}
		fires += n
	}

	if fires != 4 {
		t.Errorf("total fires = %d, expected 4", fires)
	}
	if timer.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v after exact periods, expected 0 (no drift)", timer.Elapsed())
	}
	if timer.Total() != 4 {
		t.Errorf("Total() = %d, expected 4", timer.Total())
	}
}

func TestNoteTimerFixedStepNoDrift(t *testing.T) {
	timer := NewNoteTimer(Sixteenth, fourFour) // 125ms
	step := time.Second / 200                  // 5ms

	total := 0
	for i := 0; i < 200*60; i++ { // one minute
		total += timer.Tick(step)
	}
	if total != 480 {
		t.Errorf("fires over 60s = %d, expected 480", total)
	}
}

func TestNoteTimerMultipleFiresCollapsed(t *testing.T) {
	timer := NewNoteTimer(Eighth, fourFour) // 250ms

	n := timer.Tick(800 * time.Millisecond)
	if n != 3 {
		t.Errorf("Tick(800ms) = %d, expected 3", n)
	}
	if !timer.JustFinished() || timer.TimesFinishedThisTick() != 3 {
		t.Errorf("JustFinished()=%v TimesFinishedThisTick()=%d, expected true/3",
			timer.JustFinished(), timer.TimesFinishedThisTick())
	}
	if timer.Elapsed() != 50*time.Millisecond {
		t.Errorf("Elapsed() = %v, expected 50ms remainder", timer.Elapsed())
	}

	if n := timer.Tick(10 * time.Millisecond); n != 0 {
		t.Errorf("Tick(10ms) = %d, expected 0", n)
	}
	if timer.JustFinished() {
		t.Error("JustFinished() should reset on a tick without fires")
	}
}

func TestNoteTimerZeroTempoNeverFires(t *testing.T) {
	timer := NewNoteTimer(Quarter, AudioInfo{Tempo: 0, Metre: Metre{4, 4}})

	if !timer.Disabled() {
		t.Fatal("timer with zero tempo should be disabled")
	}
	if !errors.Is(timer.Err(), ErrInvalidTempo) {
		t.Errorf("Err() = %v, expected ErrInvalidTempo", timer.Err())
	}

	for i := 0; i < 1000; i++ {
		if n := timer.Tick(time.Second); n != 0 {
			t.Fatalf("disabled timer fired %d times", n)
		}
	}
	if f := timer.Fraction(); f != 0 {
		t.Errorf("Fraction() = %v, expected 0 (no NaN)", f)
	}
	if timer.Remaining() != 0 {
		t.Errorf("Remaining() = %v, expected 0", timer.Remaining())
	}
}

func TestNoteTimerUpdateKeepsProgress(t *testing.T) {
	// Half note at 60 BPM 4/4 lasts 2s; run it to 40%.
	slow := AudioInfo{Tempo: 60, Metre: Metre{4, 4}}
	timer := NewNoteTimer(Half, slow)
	timer.Tick(800 * time.Millisecond)

	if timer.Fraction() != 0.4 {
		t.Fatalf("Fraction() = %v, expected 0.4", timer.Fraction())
	}

	// Doubling the tempo halves the period to 1s.
	fast := AudioInfo{Tempo: 120, Metre: Metre{4, 4}}
	if err := timer.Update(fast); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if timer.Period() != time.Second {
		t.Errorf("Period() = %v, expected 1s", timer.Period())
	}
	if timer.Elapsed() != 800*time.Millisecond {
		t.Errorf("Elapsed() = %v, expected progress kept at 800ms", timer.Elapsed())
	}
	if timer.Remaining() != 200*time.Millisecond {
		t.Errorf("Remaining() = %v, expected 200ms", timer.Remaining())
	}

	if n := timer.Tick(199 * time.Millisecond); n != 0 {
		t.Errorf("fired %d times before the re-targeted period ended", n)
	}
	if n := timer.Tick(time.Millisecond); n != 1 {
		t.Errorf("fired %d times at the re-targeted period, expected 1", n)
	}
}

func TestNoteTimerUpdateShorterThanProgress(t *testing.T) {
	timer := NewNoteTimer(Whole, AudioInfo{Tempo: 60, Metre: Metre{4, 4}}) // 4s
	timer.Tick(3 * time.Second)

	if err := timer.Update(AudioInfo{Tempo: 240, Metre: Metre{4, 4}}); err != nil { // 1s
		t.Fatalf("Update() error: %v", err)
	}
	if timer.Remaining() != 0 {
		t.Errorf("Remaining() = %v, expected 0", timer.Remaining())
	}
	if n := timer.Tick(time.Nanosecond); n != 3 {
		t.Errorf("Tick() = %d, expected 3 overdue fires", n)
	}
}

func TestNoteTimerUpdateToInvalidDisables(t *testing.T) {
	timer := NewNoteTimer(Quarter, fourFour)
	timer.Tick(100 * time.Millisecond)

	err := timer.Update(AudioInfo{Tempo: 120, Metre: Metre{4, 0}})
	if !errors.Is(err, ErrInvalidMetre) {
		t.Errorf("Update() error = %v, expected ErrInvalidMetre", err)
	}
	if n := timer.Tick(time.Hour); n != 0 {
		t.Errorf("disabled timer fired %d times", n)
	}

	// Recovers once timing is valid again.
	if err := timer.Update(fourFour); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if n := timer.Tick(400 * time.Millisecond); n != 1 {
		t.Errorf("Tick() = %d after recovery, expected 1", n)
	}
}

func TestNoteTimerReset(t *testing.T) {
	timer := NewNoteTimer(Quarter, fourFour)
	timer.Tick(1200 * time.Millisecond)
	timer.Reset()

	if timer.Elapsed() != 0 || timer.Total() != 0 || timer.JustFinished() {
		t.Errorf("Reset() left elapsed=%v total=%d fired=%v",
			timer.Elapsed(), timer.Total(), timer.JustFinished())
	}
}

package audio

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConductorBatchOrdering(t *testing.T) {
	ch := &recordingChannel{}
	c := NewConductor(ch)
	c.Startup()

	var notified []Transition
	c.Subscribe(func(tr Transition) { notified = append(notified, tr) })

	c.Submit(Play{Song: testSong("a")}, Pause{}, Resume{})
	if c.Pending() != 3 {
		t.Fatalf("Pending() = %d, expected 3", c.Pending())
	}

	batch := c.Update(context.Background())

	if c.State() != Playing {
		t.Errorf("State() = %s, expected playing", c.State())
	}
	if !reflect.DeepEqual(ch.calls, []string{"play(a.wav)", "pause"}) {
		t.Errorf("channel calls = %v, expected [play(a.wav) pause]", ch.calls)
	}
	if len(batch.Outcomes) != 3 || len(batch.Transitions()) != 3 || len(notified) != 3 {
		t.Errorf("outcomes=%d transitions=%d notified=%d, expected 3 each",
			len(batch.Outcomes), len(batch.Transitions()), len(notified))
	}
	if !batch.SongChanged {
		t.Error("SongChanged should be set after the first Play")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d after Update, expected 0", c.Pending())
	}
}

func TestConductorSongChangeRetargetsOnce(t *testing.T) {
	c := NewConductor(nil)
	c.Startup()

	if !c.Metronome().Timer(Quarter).Disabled() {
		t.Fatal("metronome without a song should start disabled")
	}

	waltz := &Song{ID: "waltz", Handle: "waltz.wav", Info: AudioInfo{Tempo: 60, Metre: Metre{3, 4}}}
	c.Submit(Play{Song: waltz})
	if b := c.Update(context.Background()); !b.SongChanged {
		t.Error("first Update should report the song change")
	}
	if got := c.Metronome().Timer(Measure).Period(); got != 3*time.Second {
		t.Errorf("Measure period = %v, expected 3s", got)
	}

	// Same song again: no change reported.
	c.Select(*waltz)
	if b := c.Update(context.Background()); b.SongChanged {
		t.Error("re-selecting the same song should not report a change")
	}
	if b := c.Update(context.Background()); b.SongChanged {
		t.Error("change should be reported only once")
	}
}

func TestConductorTicksOnlyWhilePlaying(t *testing.T) {
	c := NewConductor(nil)
	c.Startup()
	ctx := context.Background()

	c.Select(*testSong("a"))
	c.Update(ctx)
	if f := c.FixedUpdate(time.Second); f.Any() {
		t.Errorf("stopped conductor fired: %v", f)
	}

	c.Submit(Play{Song: testSong("a")})
	c.Update(ctx)
	if f := c.FixedUpdate(500 * time.Millisecond); f.Of(Quarter) != 1 {
		t.Errorf("Quarter fired %d times while playing, expected 1", f.Of(Quarter))
	}

	c.FixedUpdate(200 * time.Millisecond)
	c.Submit(Pause{})
	c.Update(ctx)
	if f := c.FixedUpdate(time.Second); f.Any() {
		t.Errorf("paused conductor fired: %v", f)
	}

	// Resume keeps the position within the beat.
	c.Submit(Resume{})
	c.Update(ctx)
	if got := c.Metronome().Timer(Quarter).Elapsed(); got != 200*time.Millisecond {
		t.Errorf("Quarter elapsed after resume = %v, expected 200ms", got)
	}

	// Stop rewinds.
	c.Submit(Stop{})
	c.Update(ctx)
	if got := c.Metronome().Timer(Quarter).Elapsed(); got != 0 {
		t.Errorf("Quarter elapsed after stop = %v, expected 0", got)
	}
}

func TestConductorMissingMetronomeLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	c := NewConductor(nil, WithLogger(logger))

	for i := 0; i < 10; i++ {
		c.FixedUpdate(time.Millisecond)
	}
	if n := strings.Count(buf.String(), "metronome missing"); n != 1 {
		t.Errorf("missing metronome logged %d times, expected 1\n%s", n, buf.String())
	}

	c.Startup()
	c.FixedUpdate(time.Millisecond)
	if n := strings.Count(buf.String(), "metronome missing"); n != 1 {
		t.Errorf("logged again after startup: %d", n)
	}
}

func TestConductorNoActiveSongIsObservable(t *testing.T) {
	c := NewConductor(nil)
	c.Startup()

	c.Submit(Resume{})
	batch := c.Update(context.Background())

	if len(batch.Outcomes) != 1 || batch.Outcomes[0].Err == nil {
		t.Fatalf("expected one outcome with an error, got %+v", batch.Outcomes)
	}
	if c.State() != Stopped {
		t.Errorf("State() = %s, expected stopped", c.State())
	}
}

func TestConductorStartupUsesSelectedSong(t *testing.T) {
	c := NewConductor(nil)
	c.Select(*testSong("a"))
	c.Startup()

	if got := c.Metronome().Timer(Quarter).Period(); got != 500*time.Millisecond {
		t.Errorf("Quarter period = %v, expected 500ms", got)
	}

	m := c.Metronome()
	c.Startup()
	if c.Metronome() != m {
		t.Error("Startup() should not recreate the metronome")
	}
}

func TestConductorPlayWhilePausedRewinds(t *testing.T) {
	tests := []struct {
		name  string
		next  string
		calls []string
	}{
		{"same song", "a", []string{"play(a.wav)", "pause", "play(a.wav)"}},
		{"different song", "b", []string{"play(a.wav)", "pause", "play(b.wav)"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch := &recordingChannel{}
			c := NewConductor(ch)
			c.Startup()
			ctx := context.Background()

			c.Submit(Play{Song: testSong("a")})
			c.Update(ctx)
			c.FixedUpdate(2300 * time.Millisecond)

			c.Submit(Pause{})
			c.Update(ctx)
			c.Submit(Play{Song: testSong(tc.next)})
			c.Update(ctx)

			if c.State() != Playing {
				t.Errorf("State() = %s, expected playing", c.State())
			}
			if !reflect.DeepEqual(ch.calls, tc.calls) {
				t.Errorf("channel calls = %v, expected %v", ch.calls, tc.calls)
			}
			m := c.Metronome()
			if got := m.Timer(Quarter).Elapsed(); got != 0 {
				t.Errorf("Quarter elapsed = %v, expected 0 after a restart", got)
			}
			if got := m.Timer(Measure).Total(); got != 0 {
				t.Errorf("Measure total = %d, expected 0 after a restart", got)
			}
			if measure, beat := m.Position(); measure != 0 || beat != 0 {
				t.Errorf("Position() = (%d, %d), expected (0, 0)", measure, beat)
			}
		})
	}
}

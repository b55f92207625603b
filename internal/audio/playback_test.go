package audio

import (
	"errors"
	"reflect"
	"testing"
)

// recordingChannel records output calls in order.
type recordingChannel struct {
	calls []string
}

func (r *recordingChannel) Play(h Handle) { r.calls = append(r.calls, "play("+string(h)+")") }
func (r *recordingChannel) Pause()        { r.calls = append(r.calls, "pause") }
func (r *recordingChannel) Stop()         { r.calls = append(r.calls, "stop") }

func testSong(id string) *Song {
	return &Song{ID: id, Title: id, Handle: Handle(id + ".wav"), Info: fourFour}
}

func TestPlaybackDefaultsToStopped(t *testing.T) {
	p := NewPlayback(nil)
	if p.State() != Stopped {
		t.Errorf("State() = %s, expected stopped", p.State())
	}
	if _, ok := p.Song(); ok {
		t.Error("Song() should be empty before Play")
	}
}

func TestPlaybackTransitions(t *testing.T) {
	tests := []struct {
		name  string
		cmds  []Command
		state PlaybackState
		calls []string
	}{
		{
			name:  "play",
			cmds:  []Command{Play{Song: testSong("a")}},
			state: Playing,
			calls: []string{"play(a.wav)"},
		},
		{
			name:  "play pause resume",
			cmds:  []Command{Play{Song: testSong("a")}, Pause{}, Resume{}},
			state: Playing,
			calls: []string{"play(a.wav)", "pause"},
		},
		{
			name:  "play stop",
			cmds:  []Command{Play{Song: testSong("a")}, Stop{}},
			state: Stopped,
			calls: []string{"play(a.wav)", "stop"},
		},
		{
			name:  "pause from stopped",
			cmds:  []Command{Play{Song: testSong("a")}, Stop{}, Pause{}},
			state: Paused,
			calls: []string{"play(a.wav)", "stop", "pause"},
		},
		{
			name:  "resume after stop",
			cmds:  []Command{Play{Song: testSong("a")}, Stop{}, Resume{}},
			state: Playing,
			calls: []string{"play(a.wav)", "stop"},
		},
		{
			name:  "switch song while playing",
			cmds:  []Command{Play{Song: testSong("a")}, Play{Song: testSong("b")}},
			state: Playing,
			calls: []string{"play(a.wav)", "play(b.wav)"},
		},
		{
			name:  "later command overrides earlier",
			cmds:  []Command{Play{Song: testSong("a")}, Pause{}, Stop{}, Resume{}, Pause{}},
			state: Paused,
			calls: []string{"play(a.wav)", "pause", "stop", "pause"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch := &recordingChannel{}
			p := NewPlayback(ch)
			for _, cmd := range tc.cmds {
				p.Apply(cmd)
			}
			if p.State() != tc.state {
				t.Errorf("State() = %s, expected %s", p.State(), tc.state)
			}
			if !reflect.DeepEqual(ch.calls, tc.calls) {
				t.Errorf("channel calls = %v, expected %v", ch.calls, tc.calls)
			}
		})
	}
}

func TestPlaybackIdempotent(t *testing.T) {
	ch := &recordingChannel{}
	p := NewPlayback(ch)

	var transitions []Transition
	p.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	p.Apply(Play{Song: testSong("a")})
	first := p.Apply(Pause{})
	second := p.Apply(Pause{})

	if p.State() != Paused {
		t.Errorf("State() = %s, expected paused", p.State())
	}
	if !first.Changed || second.Changed {
		t.Errorf("Changed = %v/%v, expected true/false", first.Changed, second.Changed)
	}
	if second.Err != nil {
		t.Errorf("redundant Pause should be accepted, got %v", second.Err)
	}

	pauses := 0
	for _, tr := range transitions {
		if tr.To == Paused {
			pauses++
		}
	}
	if pauses != 1 {
		t.Errorf("observed %d transitions to paused, expected 1", pauses)
	}
	if !reflect.DeepEqual(ch.calls, []string{"play(a.wav)", "pause"}) {
		t.Errorf("channel calls = %v", ch.calls)
	}

	// Replaying the same song is a no-op too.
	p.Apply(Resume{})
	if out := p.Apply(Play{Song: testSong("a")}); out.Changed {
		t.Error("Play of the current song while playing should be a no-op")
	}
}

func TestPlaybackNoActiveSong(t *testing.T) {
	ch := &recordingChannel{}
	p := NewPlayback(ch)

	for _, cmd := range []Command{Pause{}, Resume{}, Play{}} {
		out := p.Apply(cmd)
		if !errors.Is(out.Err, ErrNoActiveSong) {
			t.Errorf("%s: Err = %v, expected ErrNoActiveSong", cmd, out.Err)
		}
		if out.Changed {
			t.Errorf("%s: should not change state", cmd)
		}
	}

	if out := p.Apply(Stop{}); out.Err != nil || out.Changed {
		t.Errorf("Stop while stopped: Err=%v Changed=%v, expected nil/false", out.Err, out.Changed)
	}
	if p.State() != Stopped {
		t.Errorf("State() = %s, expected stopped", p.State())
	}
	if len(ch.calls) != 0 {
		t.Errorf("channel calls = %v, expected none", ch.calls)
	}
}

func TestPlaybackTransitionCarriesSong(t *testing.T) {
	p := NewPlayback(nil)

	var got Transition
	p.Subscribe(func(tr Transition) { got = tr })

	p.Apply(Play{Song: testSong("a")})
	if got.From != Stopped || got.To != Playing || got.Song.ID != "a" {
		t.Errorf("transition = %+v, expected stopped -> playing with song a", got)
	}
}

func TestPlaybackPlayMarksRestart(t *testing.T) {
	p := NewPlayback(nil)
	var got []Transition
	p.Subscribe(func(tr Transition) { got = append(got, tr) })

	p.Apply(Play{Song: testSong("a")})
	p.Apply(Pause{})
	p.Apply(Resume{})
	p.Apply(Pause{})
	p.Apply(Play{Song: testSong("a")})

	want := []bool{true, false, false, false, true}
	if len(got) != len(want) {
		t.Fatalf("got %d transitions, expected %d", len(got), len(want))
	}
	for i, tr := range got {
		if tr.Restart != want[i] {
			t.Errorf("transition %d (%s) Restart = %v, expected %v", i, tr, tr.Restart, want[i])
		}
	}
}

package speaker

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
)

type fakeDevice struct {
	played  []beep.Streamer
	clears  int
	locked  bool
	lockCnt int
}

func (d *fakeDevice) Play(s ...beep.Streamer) { d.played = append(d.played, s...) }
func (d *fakeDevice) Clear()                  { d.clears++ }
func (d *fakeDevice) Lock() {
	if d.locked {
		panic("fakeDevice: recursive lock")
	}
	d.locked = true
	d.lockCnt++
}
func (d *fakeDevice) Unlock() { d.locked = false }

// silence is a seekable stream of zero samples.
type silence struct {
	n, pos int
	closed bool
}

func (s *silence) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.n {
		return 0, false
	}
	k := 0
	for k < len(samples) && s.pos < s.n {
		samples[k] = [2]float64{}
		k++
		s.pos++
	}
	return k, true
}
func (s *silence) Err() error       { return nil }
func (s *silence) Len() int         { return s.n }
func (s *silence) Position() int    { return s.pos }
func (s *silence) Seek(p int) error { s.pos = p; return nil }
func (s *silence) Close() error     { s.closed = true; return nil }

func newTestOutput(t *testing.T) (*Output, *fakeDevice, map[audio.Handle]*silence) {
	t.Helper()
	dev := &fakeDevice{}
	streams := make(map[audio.Handle]*silence)
	open := func(h audio.Handle) (beep.StreamSeekCloser, beep.Format, error) {
		if h == "missing.wav" {
			return nil, beep.Format{}, errors.New("not found")
		}
		s := &silence{n: 1000}
		streams[h] = s
		return s, beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2}, nil
	}
	return New(dev, DefaultSampleRate, open, log.New(io.Discard)), dev, streams
}

func TestOutputPlayPauseResume(t *testing.T) {
	out, dev, _ := newTestOutput(t)

	out.Play("a.wav")
	if len(dev.played) != 1 {
		t.Fatalf("device played %d streams, expected 1", len(dev.played))
	}
	if out.Paused() {
		t.Error("track should start unpaused")
	}

	out.Pause()
	if !out.Paused() {
		t.Error("Pause() should hold the track")
	}

	out.OnTransition(audio.Transition{From: audio.Paused, To: audio.Playing})
	if out.Paused() {
		t.Error("transition to playing should unpause the track")
	}

	out.OnTransition(audio.Transition{From: audio.Playing, To: audio.Paused})
	if out.Paused() {
		t.Error("only transitions to playing should touch the track")
	}
}

func TestOutputStopRewinds(t *testing.T) {
	out, _, streams := newTestOutput(t)

	out.Play("a.wav")
	buf := make([][2]float64, 100)
	out.volume.Stream(buf)
	if streams["a.wav"].pos == 0 {
		t.Fatal("stream did not advance")
	}

	out.Stop()
	if !out.Paused() {
		t.Error("Stop() should hold the track")
	}
	if streams["a.wav"].pos != 0 {
		t.Errorf("position after Stop() = %d, expected 0", streams["a.wav"].pos)
	}
}

func TestOutputSwitchTrackClosesPrevious(t *testing.T) {
	out, dev, streams := newTestOutput(t)

	out.Play("a.wav")
	out.Play("b.wav")

	if !streams["a.wav"].closed {
		t.Error("previous track should be closed")
	}
	if streams["b.wav"].closed {
		t.Error("current track should stay open")
	}
	if len(dev.played) != 2 {
		t.Errorf("device played %d streams, expected 2", len(dev.played))
	}
}

func TestOutputMissingTrackIsSilent(t *testing.T) {
	out, dev, _ := newTestOutput(t)

	out.Play("missing.wav")
	if len(dev.played) != 0 {
		t.Errorf("device played %d streams for a missing track", len(dev.played))
	}

	// Controls on an empty output are harmless.
	out.Pause()
	out.Stop()
	out.OnTransition(audio.Transition{To: audio.Playing})
	if out.Paused() {
		t.Error("Paused() should be false without a track")
	}
}

func TestOutputSetVolume(t *testing.T) {
	out, _, _ := newTestOutput(t)

	out.SetVolume(-1, false)
	out.Play("a.wav")
	if out.volume.Volume != -1 || out.volume.Silent {
		t.Errorf("volume = %v silent = %v, expected -1/false", out.volume.Volume, out.volume.Silent)
	}

	out.SetVolume(0.5, true)
	if out.volume.Volume != 0.5 || !out.volume.Silent {
		t.Errorf("volume = %v silent = %v, expected 0.5/true", out.volume.Volume, out.volume.Silent)
	}
}

func TestOutputWithConductor(t *testing.T) {
	out, _, _ := newTestOutput(t)
	c := audio.NewConductor(out)
	c.Subscribe(out.OnTransition)
	c.Startup()

	song := &audio.Song{ID: "a", Handle: "a.wav", Info: audio.AudioInfo{Tempo: 120, Metre: audio.Metre{Top: 4, Bottom: 4}}}
	c.Submit(audio.Play{Song: song}, audio.Pause{})
	c.Update(t.Context())
	if !out.Paused() {
		t.Error("track should be paused after play+pause")
	}

	c.Submit(audio.Resume{})
	c.Update(t.Context())
	if out.Paused() {
		t.Error("track should resume after Resume")
	}
}

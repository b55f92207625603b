package audio

import "fmt"

// PlaybackState is the externally observable status of audio output.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Paused
	Playing
)

// String returns a human-readable state name.
func (s PlaybackState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// Transition describes one accepted state change.
type Transition struct {
	From PlaybackState
	To   PlaybackState
	Song Song // song active after the transition; zero when none

	// Restart is set when the track was started from the beginning, i.e. by
	// Play. Resume continues from the held position and leaves it false.
	Restart bool
}

func (t Transition) String() string {
	return fmt.Sprintf("%s -> %s", t.From, t.To)
}

// Listener observes accepted transitions.
type Listener func(Transition)

// Outcome is the result of applying one command.
type Outcome struct {
	Command    Command
	Changed    bool
	Transition Transition
	Err        error // ErrNoActiveSong for commands that had nothing to act on
}

// Playback is the play/pause/resume/stop state machine. It issues output calls
// on the channel only when a command actually changes the state, so repeated
// identical commands are no-ops both for observers and for the channel.
type Playback struct {
	state     PlaybackState
	song      *Song
	channel   Channel
	listeners []Listener
}

// NewPlayback creates a stopped state machine driving the given channel.
// A nil channel is replaced by a silent one.
func NewPlayback(ch Channel) *Playback {
	if ch == nil {
		ch = NullChannel{}
	}
	return &Playback{channel: ch}
}

// Subscribe registers a listener for accepted transitions.
func (p *Playback) Subscribe(l Listener) {
	p.listeners = append(p.listeners, l)
}

// State returns the current playback state.
func (p *Playback) State() PlaybackState {
	return p.state
}

// Song returns the song most recently started with Play.
func (p *Playback) Song() (Song, bool) {
	if p.song == nil {
		return Song{}, false
	}
	return *p.song, true
}

// Apply runs a single command through the state machine.
func (p *Playback) Apply(cmd Command) Outcome {
	out := Outcome{Command: cmd}

	switch c := cmd.(type) {
	case Play:
		if c.Song == nil {
			out.Err = fmt.Errorf("%w: play without a song", ErrNoActiveSong)
			return out
		}
		// Starting a different song while playing is a change too.
		if p.state == Playing && p.song != nil && *p.song == *c.Song {
			return out
		}
		song := *c.Song
		p.song = &song
		p.channel.Play(song.Handle)
		return p.restart(out)

	case Pause:
		if p.song == nil {
			out.Err = fmt.Errorf("%w: nothing to pause", ErrNoActiveSong)
			return out
		}
		if p.state == Paused {
			return out
		}
		p.channel.Pause()
		return p.transition(out, Paused)

	case Resume:
		if p.song == nil {
			out.Err = fmt.Errorf("%w: nothing to resume", ErrNoActiveSong)
			return out
		}
		if p.state == Playing {
			return out
		}
		return p.transition(out, Playing)

	case Stop:
		if p.state == Stopped {
			return out
		}
		p.channel.Stop()
		return p.transition(out, Stopped)

	default:
		out.Err = fmt.Errorf("audio: unknown command %T", cmd)
		return out
	}
}

func (p *Playback) transition(out Outcome, to PlaybackState) Outcome {
	return p.notify(out, Transition{From: p.state, To: to})
}

func (p *Playback) restart(out Outcome) Outcome {
	return p.notify(out, Transition{From: p.state, To: Playing, Restart: true})
}

func (p *Playback) notify(out Outcome, t Transition) Outcome {
	if p.song != nil {
		t.Song = *p.song
	}
	p.state = t.To
	out.Changed = true
	out.Transition = t
	for _, l := range p.listeners {
		l(t)
	}
	return out
}

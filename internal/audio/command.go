package audio

// Command is a playback request submitted to the conductor's queue.
// The set of commands is closed: Play, Pause, Resume and Stop.
type Command interface {
	command()
	String() string
}

// Play starts the given song from the beginning.
type Play struct {
	Song *Song
}

func (Play) command() {}

func (c Play) String() string {
	if c.Song == nil {
		return "play(<nil>)"
	}
	return "play(" + c.Song.ID + ")"
}

// Pause halts playback, keeping the position.
type Pause struct{}

func (Pause) command()       {}
func (Pause) String() string { return "pause" }

// Resume continues playback after Pause or Stop.
type Resume struct{}

func (Resume) command()       {}
func (Resume) String() string { return "resume" }

// Stop halts playback and rewinds to the start.
type Stop struct{}

func (Stop) command()       {}
func (Stop) String() string { return "stop" }

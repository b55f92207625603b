package audio

import "github.com/charmbracelet/log"

// Channel is the audio output driven by the playback state machine.
// Calls are fire-and-forget; implementations must not block the game loop.
//
// There is no Resume call: outputs that need to unpause subscribe to
// transitions and react to entering Playing.
type Channel interface {
	Play(h Handle)
	Pause()
	Stop()
}

// NullChannel discards all output. Used for SSH sessions and muted runs.
type NullChannel struct {
	Logger *log.Logger
}

func (c NullChannel) Play(h Handle) {
	if c.Logger != nil {
		c.Logger.Debug("audio play (muted)", "handle", h)
	}
}

func (c NullChannel) Pause() {
	if c.Logger != nil {
		c.Logger.Debug("audio pause (muted)")
	}
}

func (c NullChannel) Stop() {
	if c.Logger != nil {
		c.Logger.Debug("audio stop (muted)")
	}
}

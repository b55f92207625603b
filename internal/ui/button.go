package ui

import "github.com/vovakirdan/chrysopoeia/internal/core"

// Interaction is the pointer/focus state of a button.
type Interaction int

const (
	InteractionNone Interaction = iota
	InteractionHovered
	InteractionPressed
)

func (i Interaction) String() string {
	switch i {
	case InteractionHovered:
		return "hovered"
	case InteractionPressed:
		return "pressed"
	default:
		return "none"
	}
}

// ColorSet picks a colour per interaction.
type ColorSet struct {
	Normal  core.Color
	Hovered core.Color
	Pressed core.Color
}

// For returns the colour for an interaction.
func (c ColorSet) For(i Interaction) core.Color {
	switch i {
	case InteractionHovered:
		return c.Hovered
	case InteractionPressed:
		return c.Pressed
	default:
		return c.Normal
	}
}

// ButtonStyle is the colour scheme of a button.
type ButtonStyle struct {
	Background ColorSet
	Border     ColorSet
	Text       ColorSet
}

// DefaultButtonStyle is used by every menu button.
var DefaultButtonStyle = ButtonStyle{
	Background: ColorSet{Normal: core.ColorLight, Hovered: core.ColorLighter, Pressed: core.ColorDark},
	Border:     ColorSet{Normal: core.ColorBlack, Hovered: core.ColorLight, Pressed: core.ColorDarker},
	Text:       ColorSet{Normal: core.ColorBlack, Hovered: core.ColorDark, Pressed: core.ColorBlack},
}

// pressFrames is how long a press stays visible.
const pressFrames = 6

// Button is a labelled box. Pressing shows the pressed colours for a few
// frames before falling back to hovered/none.
type Button struct {
	Label string
	Rect  core.Rect
	Style ButtonStyle

	hovered bool
	press   int
}

// NewButton creates a button with the default style.
func NewButton(label string, r core.Rect) *Button {
	return &Button{Label: label, Rect: r, Style: DefaultButtonStyle}
}

// SetHovered marks the button as focused.
func (b *Button) SetHovered(h bool) {
	b.hovered = h
}

// Press starts the pressed animation.
func (b *Button) Press() {
	b.press = pressFrames
}

// Step advances the press animation by one frame.
func (b *Button) Step() {
	if b.press > 0 {
		b.press--
	}
}

// Interaction returns the button's current state.
func (b *Button) Interaction() Interaction {
	switch {
	case b.press > 0:
		return InteractionPressed
	case b.hovered:
		return InteractionHovered
	default:
		return InteractionNone
	}
}

// Draw renders the button onto the screen.
func (b *Button) Draw(s *core.Screen) {
	i := b.Interaction()
	bg := b.Style.Background.For(i)

	s.FillRect(b.Rect, bg)
	if b.Rect.H >= 3 && b.Rect.W >= 3 {
		s.DrawBox(b.Rect, b.Style.Border.For(i))
	}
	s.DrawTextIn(b.Rect, b.Label, b.Style.Text.For(i), bg)
}

// Package config provides YAML-based settings and song catalog loading.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
)

// ScaleFactor is the UI resolution scale.
type ScaleFactor string

const (
	ScaleLarge ScaleFactor = "large"
	ScaleSmall ScaleFactor = "small"
)

// Scale returns the multiplier for the factor. Unknown values count as large.
func (s ScaleFactor) Scale() int {
	if s == ScaleSmall {
		return 3
	}
	return 4
}

// Toggle switches between large and small.
func (s ScaleFactor) Toggle() ScaleFactor {
	if s == ScaleSmall {
		return ScaleLarge
	}
	return ScaleSmall
}

// Settings contains user-adjustable options.
type Settings struct {
	Resolution Resolution    `yaml:"resolution"`
	Monitor    int           `yaml:"monitor"`
	TickRate   int           `yaml:"tick_rate"`
	Audio      AudioSettings `yaml:"audio"`
}

// Resolution defines the play area size and UI scale.
type Resolution struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Scale  ScaleFactor `yaml:"scale"`
}

// AudioSettings defines output options.
type AudioSettings struct {
	Volume     float64 `yaml:"volume"` // Gain in powers of two
	Muted      bool    `yaml:"muted"`
	SampleRate int     `yaml:"sample_rate"`
}

// Volume limits accepted by the settings screen.
const (
	MinVolume = -5.0
	MaxVolume = 2.0
)

// Encode serializes settings to YAML.
func (s Settings) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("config: encode settings: %w", err)
	}
	return data, nil
}

// DecodeSettings parses YAML settings on top of the defaults, so missing
// keys keep their default values.
func DecodeSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("config: decode settings: %w", err)
	}
	return s, nil
}

// Catalog is the list of playable songs.
type Catalog struct {
	Songs []SongEntry `yaml:"songs"`

	dir string // directory relative paths resolve against
}

// SongEntry describes one song as written in songs.yaml.
type SongEntry struct {
	ID    string  `yaml:"id"`
	Title string  `yaml:"title"`
	Path  string  `yaml:"path"`
	Tempo float64 `yaml:"tempo"`
	Metre string  `yaml:"metre"`
	Intro int     `yaml:"intro,omitempty"`
	Body  int     `yaml:"body"`
	Outro int     `yaml:"outro,omitempty"`
}

// Song converts the entry to an audio.Song and validates its timing info.
func (c Catalog) Song(e SongEntry) (audio.Song, error) {
	if strings.TrimSpace(e.ID) == "" {
		return audio.Song{}, fmt.Errorf("config: song without id")
	}
	metre, err := audio.ParseMetre(e.Metre)
	if err != nil {
		return audio.Song{}, fmt.Errorf("config: song %s: %w", e.ID, err)
	}
	info := audio.AudioInfo{
		Tempo: audio.Tempo(e.Tempo),
		Metre: metre,
		Intro: e.Intro,
		Body:  e.Body,
		Outro: e.Outro,
	}
	if err := info.Validate(); err != nil {
		return audio.Song{}, fmt.Errorf("config: song %s: %w", e.ID, err)
	}

	title := e.Title
	if title == "" {
		title = e.ID
	}
	return audio.Song{
		ID:     e.ID,
		Title:  title,
		Handle: audio.Handle(c.resolve(e.Path)),
		Info:   info,
	}, nil
}

// Find returns the entry with the given id.
func (c Catalog) Find(id string) (SongEntry, bool) {
	for _, e := range c.Songs {
		if e.ID == id {
			return e, true
		}
	}
	return SongEntry{}, false
}

func (c Catalog) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

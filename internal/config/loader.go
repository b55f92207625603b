package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

//go:embed defaults/songs.yaml
var defaultSongsYAML []byte

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Resolution: Resolution{Width: 80, Height: 24, Scale: ScaleLarge},
		TickRate:   60,
		Audio:      AudioSettings{SampleRate: 44100},
	}
}

// LoadSettings loads user settings.
// Search order: customPath -> ~/.chrysopoeia/configs/settings.yaml -> ./configs/settings.yaml -> embedded default
func LoadSettings(customPath string) (Settings, error) {
	s := DefaultSettings()
	if _, err := load(customPath, "settings.yaml", defaultSettingsYAML, &s); err != nil {
		return DefaultSettings(), err
	}
	return s, nil
}

// LoadCatalog loads the song catalog.
// Search order: customPath -> ~/.chrysopoeia/configs/songs.yaml -> ./configs/songs.yaml -> embedded default
// Relative song paths resolve against the directory of the file that was read;
// for the embedded catalog they resolve against the working directory.
func LoadCatalog(customPath string) (Catalog, error) {
	var c Catalog
	src, err := load(customPath, "songs.yaml", defaultSongsYAML, &c)
	if err != nil {
		return Catalog{}, err
	}
	if src != "" {
		c.dir = filepath.Dir(src)
	}
	return c, nil
}

// load decodes the first config found into out and returns the path it came
// from, or "" for the embedded default. A custom path that cannot be read or
// parsed is an error; broken files further down the search order are skipped.
func load[T any](customPath, filename string, embedded []byte, out *T) (string, error) {
	decode := func(data []byte) error {
		v := *out
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		*out = v
		return nil
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return "", fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decode(data); err != nil {
			return "", fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return customPath, nil
	}

	candidates := []string{filepath.Join("configs", filename)}
	if p := userConfigPath(filename); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := decode(data); err == nil {
			return p, nil
		}
	}

	if err := decode(embedded); err != nil {
		return "", fmt.Errorf("failed to parse embedded %s: %w", filename, err)
	}
	return "", nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := userHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chrysopoeia", "configs", filename)
}

// DataDir returns ~/.chrysopoeia, creating it if needed.
func DataDir() (string, error) {
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".chrysopoeia")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

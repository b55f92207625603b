// chrysopoeia is a rhythm combat game for the terminal: press the four combat
// keys on the beat of the selected song.
//
// Usage:
//
//	chrysopoeia play              - Play locally with audio
//	chrysopoeia songs             - List the song catalog
//	chrysopoeia metronome         - Run a headless metronome and print fire counts
//	chrysopoeia scores [song]     - Show the best combat runs
//	chrysopoeia serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: from settings)
//	--db <path>         - Set database path (default: ~/.chrysopoeia/chrysopoeia.db)
//	--settings <path>   - Custom settings.yaml
//	--songs <path>      - Custom songs.yaml
//	--telemetry         - Export traces over OTLP/HTTP
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/storage"
	"github.com/vovakirdan/chrysopoeia/internal/telemetry"

	// Import scenes to register them
	_ "github.com/vovakirdan/chrysopoeia/internal/scenes/combat"
	_ "github.com/vovakirdan/chrysopoeia/internal/scenes/loading"
	_ "github.com/vovakirdan/chrysopoeia/internal/scenes/menu"
	_ "github.com/vovakirdan/chrysopoeia/internal/scenes/settings"
)

var (
	// Global flags
	flagFPS       int
	flagDBPath    string
	flagSettings  string
	flagSongs     string
	flagTelemetry bool
	flagDebug     bool
)

func main() {
	// Not fatal: the environment may already be set.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chrysopoeia",
	Short: "Chrysopoeia - rhythm combat in your terminal",
	Long: `Chrysopoeia is a terminal rhythm game. Pick a song, then hit the
combat keys (J K L ;) on the beat.

Available commands:
  play       - Play locally with audio
  songs      - List the song catalog
  metronome  - Headless metronome run
  scores     - View the best runs per song
  serve      - Start SSH server for remote play

Examples:
  chrysopoeia play
  chrysopoeia play --mute --fps 30
  chrysopoeia metronome --bpm 140 --metre 6/8 --seconds 4
  chrysopoeia scores albedo
  chrysopoeia serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from settings)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.chrysopoeia/chrysopoeia.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Path to custom settings.yaml")
	rootCmd.PersistentFlags().StringVar(&flagSongs, "songs", "", "Path to custom songs.yaml")
	rootCmd.PersistentFlags().BoolVar(&flagTelemetry, "telemetry", false, "Export traces over OTLP/HTTP (also on when "+telemetry.EndpointEnv+" is set)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(songsCmd)
	rootCmd.AddCommand(metronomeCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates a logger writing to w.
func newLogger(w *os.File) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "chrysopoeia",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// openLogFile opens ~/.chrysopoeia/chrysopoeia.log so logging does not
// disturb the alt screen.
func openLogFile() (*log.Logger, func(), error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "chrysopoeia.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return newLogger(f), func() { f.Close() }, nil
}

// startTelemetry sets up tracing when requested. The returned function
// flushes pending spans.
func startTelemetry(ctx context.Context, logger *log.Logger) (trace.Tracer, func()) {
	if !flagTelemetry && !telemetry.Configured() {
		return telemetry.NoopTracer(), func() {}
	}

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Warn("telemetry setup failed, running without traces", "error", err)
		return telemetry.NoopTracer(), func() {}
	}
	logger.Info("telemetry enabled")

	return telemetry.Tracer("game"), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
}

// loadSettings reads settings from config files, then lets values saved in
// the store and the --fps flag override them.
func loadSettings(store *storage.Store, logger *log.Logger) (config.Settings, error) {
	settings, err := config.LoadSettings(flagSettings)
	if err != nil {
		return settings, err
	}

	if store != nil {
		saved, ok, err := store.LoadSettings()
		switch {
		case err != nil:
			logger.Warn("ignoring stored settings", "error", err)
		case ok:
			settings = saved
		}
	}

	if flagFPS > 0 {
		settings.TickRate = flagFPS
	}
	return settings, nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/faiface/beep"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/audio/speaker"
	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/platform/tui"
	"github.com/vovakirdan/chrysopoeia/internal/registry"
	"github.com/vovakirdan/chrysopoeia/internal/storage"
	"github.com/vovakirdan/chrysopoeia/internal/world"
)

var flagMute bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play locally",
	Long: `Start the game on this terminal.

Controls:
  J K L ;        - Combat buttons (hit on the beat)
  Up/Down, W/S   - Move between menu entries
  Left/Right     - Change song / setting value
  Enter/Space    - Select
  P              - Pause during combat
  Esc            - Back
  ?              - Toggle full help
  Q/Ctrl+C       - Quit

Audio is played through the default output device. If the device cannot be
opened, or --mute is given, the game runs silently.

Examples:
  chrysopoeia play
  chrysopoeia play --mute
  chrysopoeia play --songs ./my-songs.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Run without opening the audio device")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := openLogFile()
	if err != nil {
		return err
	}
	defer closeLog()

	tracer, flush := startTelemetry(ctx, logger)
	defer flush()

	catalog, err := config.LoadCatalog(flagSongs)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, runs will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	settings, err := loadSettings(store, logger)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	var channel audio.Channel = audio.NullChannel{Logger: logger}
	var mixer world.Mixer
	var output *speaker.Output
	if !flagMute {
		output, err = speaker.Open(ctx, beep.SampleRate(settings.Audio.SampleRate), logger)
		if err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			defer output.Close()
			channel, mixer = output, output
		}
	}

	conductor := audio.NewConductor(channel,
		audio.WithLogger(logger),
		audio.WithTracer(tracer),
	)
	if output != nil {
		conductor.Subscribe(output.OnTransition)
	}

	w := world.New(world.Options{
		Config: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: settings.TickRate,
		},
		Settings:  settings,
		Catalog:   catalog,
		Conductor: conductor,
		Store:     store,
		Mixer:     mixer,
		Logger:    logger,
		Tracer:    tracer,
		HasAsset:  trackExists,
	})
	w.ApplySettings()

	d, err := registry.NewDirector(w)
	if err != nil {
		return err
	}

	logger.Info("session started", "session", w.SessionID, "songs", len(catalog.Songs), "audio", output != nil)
	return tui.Run(ctx, d)
}

func trackExists(h audio.Handle) bool {
	_, err := os.Stat(string(h))
	return err == nil
}

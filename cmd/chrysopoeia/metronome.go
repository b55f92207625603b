package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/ui"
)

var (
	flagBPM     float64
	flagMetre   string
	flagSeconds float64
	flagStep    time.Duration
	flagBeats   bool
)

var metronomeCmd = &cobra.Command{
	Use:   "metronome",
	Short: "Run a headless metronome",
	Long: `Advance a metronome in fixed steps without audio or a terminal UI and
print how often each note subdivision fired.

Examples:
  chrysopoeia metronome
  chrysopoeia metronome --bpm 90 --metre 3/4 --seconds 8
  chrysopoeia metronome --bpm 140 --metre 6/8 --step 10ms --beats`,
	Args: cobra.NoArgs,
	RunE: runMetronome,
}

func init() {
	metronomeCmd.Flags().Float64Var(&flagBPM, "bpm", 120, "Tempo in beats per minute")
	metronomeCmd.Flags().StringVar(&flagMetre, "metre", "4/4", "Time signature, e.g. 3/4 or 6/8")
	metronomeCmd.Flags().Float64Var(&flagSeconds, "seconds", 4, "Simulated run time")
	metronomeCmd.Flags().DurationVar(&flagStep, "step", time.Second/60, "Fixed update step")
	metronomeCmd.Flags().BoolVar(&flagBeats, "beats", false, "Print every beat as it fires")
}

func runMetronome(cmd *cobra.Command, _ []string) error {
	metre, err := audio.ParseMetre(flagMetre)
	if err != nil {
		return err
	}
	if flagStep <= 0 {
		return fmt.Errorf("step must be positive, got %v", flagStep)
	}

	info := audio.AudioInfo{Tempo: audio.Tempo(flagBPM), Metre: metre, Body: 1}
	if err := info.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	m := audio.NewMetronome(info)
	beatKind, hasBeat := audio.BeatKind(metre)

	var (
		total   audio.Fires
		elapsed time.Duration
	)
	duration := time.Duration(flagSeconds * float64(time.Second))
	for elapsed < duration {
		fires := m.Tick(flagStep)
		elapsed += flagStep
		for k, n := range fires {
			total[k] += n
		}
		if flagBeats && hasBeat && fires.Of(beatKind) > 0 {
			measure, beat := m.Position()
			fmt.Fprintf(out, "%10v  measure %3d  beat %d\n", elapsed, measure+1, beat+1)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.TerminalColor(core.ColorDark))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Note", "Period", "Fires")
	for _, k := range audio.NoteKinds {
		name := k.String()
		if hasBeat && k == beatKind {
			name += " (beat)"
		}
		t.Row(name, m.Timer(k).Period().String(), fmt.Sprintf("%d", total.Of(k)))
	}

	fmt.Fprintf(out, "%g BPM %s, %v in steps of %v\n", flagBPM, metre, elapsed, flagStep)
	fmt.Fprintln(out, t.Render())
	return nil
}

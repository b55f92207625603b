package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chrysopoeia/internal/audio"
	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/ui"
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List the song catalog",
	Long: `Shows every song in the catalog with its timing.

Beat and measure lengths are derived from tempo and metre. Songs with invalid
timing are listed but cannot be played; songs whose track file is missing
play without audio.

Examples:
  chrysopoeia songs
  chrysopoeia songs --songs ./my-songs.yaml`,
	Args: cobra.NoArgs,
	RunE: runSongs,
}

func runSongs(cmd *cobra.Command, _ []string) error {
	catalog, err := config.LoadCatalog(flagSongs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(catalog.Songs) == 0 {
		fmt.Fprintln(out, "No songs in the catalog.")
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.TerminalColor(core.ColorDark))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(ui.TerminalColor(core.ColorLight)).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "Title", "BPM", "Metre", "Beat", "Measure", "Measures", "Length", "Track")

	for _, e := range catalog.Songs {
		t.Row(songRow(catalog, e)...)
	}

	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'chrysopoeia play' and pick a song with Left/Right.")
	return nil
}

func songRow(catalog config.Catalog, e config.SongEntry) []string {
	song, err := catalog.Song(e)
	if err != nil {
		return []string{e.ID, e.Title, fmt.Sprintf("%g", e.Tempo), e.Metre, "-", "-", "-", "-", "invalid: " + err.Error()}
	}

	info := song.Info
	beat, measure := "-", "-"
	if kind, ok := audio.BeatKind(info.Metre); ok {
		if d, err := kind.Length(info); err == nil {
			beat = fmt.Sprintf("%s %v", kind, d)
		}
	}
	if d, err := audio.Measure.Length(info); err == nil {
		measure = d.String()
	}
	length := "-"
	if d, err := info.Length(); err == nil {
		length = d.String()
	}

	track := "ok"
	if !trackExists(song.Handle) {
		track = "missing"
	}

	return []string{
		song.ID,
		song.Title,
		fmt.Sprintf("%g", float64(info.Tempo)),
		info.Metre.String(),
		beat,
		measure,
		fmt.Sprintf("%d/%d/%d", info.Intro, info.Body, info.Outro),
		length,
		track,
	}
}

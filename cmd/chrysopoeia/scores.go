package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/platform/tui"
	"github.com/vovakirdan/chrysopoeia/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [song]",
	Short: "Show the best combat runs",
	Long: `Display the top 10 combat runs for a song.

Without a song argument on an interactive terminal, opens a scoreboard where
Tab and the arrow keys switch between songs.

Examples:
  chrysopoeia scores
  chrysopoeia scores albedo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func runScores(cmd *cobra.Command, args []string) error {
	catalog, err := config.LoadCatalog(flagSongs)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		fd := int(os.Stdout.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("a song is required when output is not a terminal")
		}
		width, height, err := term.GetSize(fd)
		if err != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(store, catalog.Songs, width, height)
	}

	songID := args[0]
	entry, ok := catalog.Find(songID)
	if !ok {
		fmt.Fprintln(os.Stderr, "Run 'chrysopoeia songs' to see available songs.")
		return fmt.Errorf("unknown song %q", songID)
	}
	title := entry.Title
	if title == "" {
		title = entry.ID
	}

	runs, err := store.TopRuns(songID, 10)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "High Scores - %s\n", title)
	fmt.Fprintln(out)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'chrysopoeia play' to set the first high score!")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-8s  %-5s  %-5s  %-6s  %-5s  %s\n", "Rank", "Score", "Hits", "Miss", "Streak", "Acc", "Date")
	fmt.Fprintf(out, "  %-4s  %-8s  %-5s  %-5s  %-6s  %-5s  %s\n", "----", "-----", "----", "----", "------", "---", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-8d  %-5d  %-5d  %-6d  %-5s  %s\n",
			i+1, r.Score, r.Hits, r.Misses, r.BestStreak,
			fmt.Sprintf("%.0f%%", r.Accuracy()*100),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.SongStats(songID)
	if err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Plays: %d  Runs: %d  Best: %d  Best streak: %d\n",
			stats.Plays, stats.Runs, stats.BestScore, stats.BestStreak)
	}
	return nil
}

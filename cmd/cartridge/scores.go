package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cartridge/internal/platform/tui"
	"github.com/vovakirdan/tui-cartridge/internal/registry"
	"github.com/vovakirdan/tui-cartridge/internal/storage"
)

var (
	flagLimit       int
	flagClear       bool
	flagInteractive bool
	flagRun         string
)

// runIDWidth is how much of a run ID the score table shows.
const runIDWidth = 8

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a cartridge",
	Long: `Display the top high scores for the specified cartridge.

Examples:
  cartridge scores stomp
  cartridge scores stomp --limit 25
  cartridge scores stomp -i
  cartridge scores stomp --run <run-id>
  cartridge scores stomp --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the cartridge")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table")
	scoresCmd.Flags().StringVar(&flagRun, "run", "", "Show one saved run and how to replay it")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]
	checkGame(registry.Exists(gameID), gameID)

	cart, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating cartridge: %v\n", err)
		os.Exit(1)
	}
	title := cart.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("Cleared all %s scores.\n", title)
		return

	case flagRun != "":
		entry, err := store.ScoreByRun(flagRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if entry == nil || entry.GameID != gameID {
			fmt.Fprintf(os.Stderr, "No %s run with ID %q.\n", title, flagRun)
			os.Exit(1)
		}
		printRun(os.Stdout, *entry)
		return

	case flagInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, gameID, title, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'cartridge play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-7s  %-16s  %s\n", "Rank", "Score", "Level", "Date", "Run")
	fmt.Printf("  %-4s  %-6s  %-7s  %-16s  %s\n", "----", "-----", "-----", "----", "---")
	for i, entry := range scores {
		level := difficultyLabel(entry.Difficulty)
		fmt.Printf("  %-4d  %-6d  %-7s  %-16s  %s\n",
			i+1, entry.Score, level, entry.CreatedAt.Local().Format("2006-01-02 15:04"), shortRunID(entry.RunID))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d   Games: %d   Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
}

// shortRunID trims a run ID for the score table. Run IDs chosen by callers
// of SaveScore may be shorter than the prefix.
func shortRunID(runID string) string {
	if len(runID) > runIDWidth {
		return runID[:runIDWidth]
	}
	return runID
}

func difficultyLabel(d string) string {
	if d == "" {
		return "normal"
	}
	return d
}

// printRun shows a saved run with the command that replays its enemy waves.
func printRun(w io.Writer, e storage.ScoreEntry) {
	fmt.Fprintf(w, "Run:        %s\n", e.RunID)
	fmt.Fprintf(w, "Score:      %d\n", e.Score)
	fmt.Fprintf(w, "Difficulty: %s\n", difficultyLabel(e.Difficulty))
	fmt.Fprintf(w, "Frames:     %d\n", e.Frames)
	fmt.Fprintf(w, "Played:     %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Seed:       %d\n", e.Seed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Replay: cartridge play %s --seed %d --difficulty %s\n", e.GameID, e.Seed, difficultyLabel(e.Difficulty))
}

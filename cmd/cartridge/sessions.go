package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cartridge/internal/storage"
)

var flagSessionLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent SSH sessions",
	Long: `List the most recent sessions played through 'cartridge serve'.

Examples:
  cartridge sessions
  cartridge sessions --limit 50`,
	Args: cobra.NoArgs,
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionLimit, "limit", 20, "Number of sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	sessions, err := store.RecentSessions(flagSessionLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		fmt.Println("No SSH sessions recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-12s  %-8s  %5s  %4s  %s\n", "Started", "User", "Game", "Games", "Best", "Length")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-12s  %-8s  %5d  %4d  %s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"), s.User, s.GameID,
			s.Games, s.BestScore, s.EndedAt.Sub(s.StartedAt).Round(time.Second))
	}
}

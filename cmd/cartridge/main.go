// cartridge runs console cartridges in the terminal.
//
// Usage:
//
//	cartridge list              - List available cartridges
//	cartridge play <game>       - Play a cartridge
//	cartridge scores <game>     - Show high scores for a cartridge
//	cartridge sessions          - Show recent SSH sessions
//	cartridge serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade/scores.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import cartridges to register them
	_ "github.com/vovakirdan/tui-cartridge/internal/games/stomp"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cartridge",
	Short: "Play console cartridges in your terminal",
	Long: `cartridge runs small fixed-screen games ("cartridges") in the terminal,
locally or over SSH.

Available commands:
  list      - Show all available cartridges
  play      - Play a cartridge
  scores    - View high scores
  sessions  - View recent SSH sessions
  serve     - Start SSH server for remote play

Examples:
  cartridge list
  cartridge play stomp
  cartridge play stomp --difficulty hard --seed 42
  cartridge serve --ssh :2222
  cartridge scores stomp`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger(w *os.File) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cartridge",
		Level:           level,
	}), nil
}

// expandHome resolves a leading ~ against the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// checkGame exits with a hint when the cartridge is unknown.
func checkGame(exists bool, gameID string) {
	if exists {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: unknown cartridge %q\n", gameID)
	fmt.Fprintln(os.Stderr, "Run 'cartridge list' to see available cartridges.")
	os.Exit(1)
}

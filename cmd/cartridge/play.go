package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cartridge/internal/audio"
	"github.com/vovakirdan/tui-cartridge/internal/config"
	"github.com/vovakirdan/tui-cartridge/internal/core"
	"github.com/vovakirdan/tui-cartridge/internal/games/stomp"
	"github.com/vovakirdan/tui-cartridge/internal/platform/tui"
	"github.com/vovakirdan/tui-cartridge/internal/registry"
	"github.com/vovakirdan/tui-cartridge/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMute       bool
	flagLogFile    string
	flagKeyHold    time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a cartridge",
	Long: `Start playing the specified cartridge.

Controls:
  Left/A, Right/D  - Walk
  Space/Up/W       - Jump
  Enter/X          - Retry after game over (once the jingle ends)
  Tab              - Scoreboard
  Ctrl+S           - Screenshot to ~/.arcade/screenshots
  Q/Esc/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower walkers, fewer of them
  normal - Default tuning
  hard   - Faster walkers, more often, up to seven at once

Terminals only report key presses, so a key counts as held for --key-hold
after each press. Raise it if holding a key stutters before auto-repeat kicks
in; lower it if a single tap walks too far.

Logs go to --log-file while the game owns the terminal.

Examples:
  cartridge play stomp
  cartridge play stomp --difficulty hard
  cartridge play stomp --seed 42 --mute
  cartridge play stomp --config ./my-stomp.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom cartridge config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.arcade/cartridge.log", "Log file used while playing")
	playCmd.Flags().DurationVar(&flagKeyHold, "key-hold", tui.DefaultKeyHold, "How long a key stays held after each press")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]
	checkGame(registry.Exists(gameID), gameID)

	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logPath := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set config path and difficulty before creation
	switch gameID {
	case "stomp":
		stomp.SetConfigPath(flagConfig)
		stomp.SetDifficultyPreset(preset)
	}

	cart, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating cartridge: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	// Continue without storage - the cartridge still works
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	opts := audio.DefaultOptions()
	opts.TickRate = flagFPS
	speaker := audio.Open(opts, flagMute, logger)

	session, err := tui.NewSession(cart, tui.SessionOptions{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height - 1, // Help line
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Speaker:    speaker,
		Store:      store,
		Difficulty: string(preset),
		KeyHold:    flagKeyHold,
		Logger:     logger,
	})
	if err != nil {
		speaker.Close()
		closeStore(store)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(session, tui.ModelOptions{
		Store:  store,
		Logger: logger,
	})

	session.Close()
	closeStore(store)

	if runErr != nil {
		logger.Error("play failed", "error", runErr)
		fmt.Fprintf(os.Stderr, "Error running cartridge: %v\n", runErr)
		os.Exit(1)
	}
	if run := session.LastRun(); run != "" {
		fmt.Printf("Last saved run: %s (best %d)\n", run, session.Best())
		fmt.Printf("Details: cartridge scores %s --run %s\n", gameID, run)
	}
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close()
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cartridge/internal/config"
	"github.com/vovakirdan/tui-cartridge/internal/games/stomp"
	"github.com/vovakirdan/tui-cartridge/internal/platform/tui"
	"github.com/vovakirdan/tui-cartridge/internal/registry"
)

var (
	flagSSHAddr         string
	flagHostKey         string
	flagIdleTimeout     int
	flagServeGame       string
	flagServeDifficulty string
	flagServeConfig     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cartridge SSH server",
	Long: `Start an SSH server that lets users connect and play a cartridge.

Each SSH connection gets its own game. Sound is disabled for remote players.
Scores are stored per-server (all users share the same leaderboard), and every
session is recorded; see 'cartridge sessions'.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  cartridge serve                           # Listen on :23234 with auto-generated key
  cartridge serve --ssh :2222               # Listen on port 2222
  cartridge serve --host-key ./my_host_key  # Use specific host key
  cartridge serve --difficulty hard

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeGame, "game", "stomp", "Cartridge to serve")
	serveCmd.Flags().StringVar(&flagServeDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to custom cartridge config YAML")
}

func runServe(_ *cobra.Command, _ []string) {
	checkGame(registry.Exists(flagServeGame), flagServeGame)

	logger, err := newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	preset, err := config.ParseDifficulty(flagServeDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	switch flagServeGame {
	case "stomp":
		stomp.SetConfigPath(flagServeConfig)
		stomp.SetDifficultyPreset(preset)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		GameID:      flagServeGame,
		Difficulty:  string(preset),
		TickRate:    flagFPS,
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		logger.Error("cannot create server", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Serving %s on %s\n", flagServeGame, server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

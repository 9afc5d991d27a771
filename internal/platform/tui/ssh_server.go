package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-cartridge/internal/audio"
	"github.com/vovakirdan/tui-cartridge/internal/core"
	"github.com/vovakirdan/tui-cartridge/internal/registry"
	"github.com/vovakirdan/tui-cartridge/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// GameID is the cartridge every session plays.
	GameID string

	// Difficulty is recorded with saved scores.
	Difficulty string

	// TickRate is the frame rate for every session.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/scores.db",
		IdleTimeout: 30 * time.Minute,
		GameID:      "stomp",
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server that hosts one cartridge per connection.
// Sessions get a silent clocked speaker: sound would otherwise play on the
// server's own device.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*remoteSession // Keyed by the SSH session ID
}

// remoteSession tracks a connected player for the session log.
type remoteSession struct {
	id      string
	started time.Time
	session *Session
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if !registry.Exists(cfg.GameID) {
		return nil, fmt.Errorf("tui: unknown cartridge %q", cfg.GameID)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if logger == nil {
		logger = log.Default()
	}

	// Continue without storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		logger:   logger,
		sessions: make(map[string]*remoteSession),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler starts a cartridge for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "a PTY is required, connect with ssh -t")
		return nil, nil
	}

	cart, err := registry.Create(s.config.GameID)
	if err != nil {
		s.logger.Error("cannot create cartridge", "error", err)
		return nil, nil
	}

	id := uuid.NewString()
	logger := s.logger.With("session", id, "user", sshSession.User())

	session, err := NewSession(cart, SessionOptions{
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height - helpRows,
			TickRate: s.config.TickRate,
			Seed:     time.Now().UnixNano(),
		},
		Speaker:    audio.NewClockSpeaker(),
		Store:      s.store,
		Difficulty: s.config.Difficulty,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("cannot start session", "error", err)
		wish.Fatalln(sshSession, err.Error())
		return nil, nil
	}

	s.mu.Lock()
	s.sessions[sshSession.Context().SessionID()] = &remoteSession{
		id:      id,
		started: time.Now(),
		session: session,
	}
	s.mu.Unlock()

	model := NewModel(session, ModelOptions{
		Store:         s.store,
		Renderer:      bubbletea.MakeRenderer(sshSession),
		Logger:        s.logger,
		ScreenshotDir: os.TempDir(),
		SessionID:     id,
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events and records finished sessions.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)

		key := sshSession.Context().SessionID()
		s.mu.Lock()
		rs := s.sessions[key]
		delete(s.sessions, key)
		s.mu.Unlock()

		if rs == nil {
			s.logger.Info("session ended", "user", sshSession.User())
			return
		}
		rs.session.Close()
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"session", rs.id,
			"games", rs.session.Games(),
			"best", rs.session.Best(),
		)
		s.recordSession(sshSession, rs)
	}
}

func (s *SSHServer) recordSession(sshSession ssh.Session, rs *remoteSession) {
	if s.store == nil {
		return
	}
	_, err := s.store.SaveSession(storage.SessionEntry{
		SessionID:  rs.id,
		User:       sshSession.User(),
		RemoteAddr: sshSession.RemoteAddr().String(),
		GameID:     s.config.GameID,
		Games:      rs.session.Games(),
		BestScore:  rs.session.Best(),
		StartedAt:  rs.started,
		EndedAt:    time.Now(),
	})
	if err != nil {
		s.logger.Error("could not record session", "session", rs.id, "error", err)
	}
}

// Active returns the number of connected sessions.
func (s *SSHServer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "game", s.config.GameID)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		s.Shutdown() //nolint:errcheck // already failing
		return fmt.Errorf("tui: ssh server: %w", err)
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("stopping SSH server", "address", s.Addr(), "active", s.Active())
	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cartridge/internal/storage"
)

// helpRows is the space kept below the playfield for the help line.
const helpRows = 1

// Model is the Bubble Tea model for running a cartridge.
type Model struct {
	session   *Session
	store     *storage.Store
	painter   *Painter
	keys      KeyMap
	help      help.Model
	logger    *log.Logger
	board     *ScoreboardModel // Non-nil while the scoreboard is open
	width     int
	height    int
	quitting  bool
	status    string // One-line notice shown in the help row
	shotDir   string
	tickRate  int
	sessionID string
}

// ModelOptions configures a Model.
type ModelOptions struct {
	Store         *storage.Store
	Renderer      *lipgloss.Renderer // Nil uses the local terminal
	Logger        *log.Logger
	ScreenshotDir string // Empty uses ~/.arcade/screenshots
	SessionID     string // Tags log lines from SSH sessions
}

// NewModel creates a Bubble Tea model around a started session.
func NewModel(session *Session, opts ModelOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.SessionID != "" {
		logger = logger.With("session", opts.SessionID)
	}

	return Model{
		session:   session,
		store:     opts.Store,
		painter:   NewPainter(opts.Renderer),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		logger:    logger,
		width:     session.rt.ScreenW,
		height:    session.rt.ScreenH + helpRows,
		shotDir:   opts.ScreenshotDir,
		tickRate:  session.rt.TickRate,
		sessionID: opts.SessionID,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.board != nil {
		return m.updateBoard(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		path, err := m.session.SaveScreenshot(m.shotDir)
		if err != nil {
			m.logger.Error("screenshot failed", "error", err)
			m.status = "screenshot failed"
		} else {
			m.logger.Info("screenshot saved", "path", path)
			m.status = "saved " + path
		}
		return m, nil

	case key.Matches(msg, m.keys.Scores):
		cart := m.session.Cartridge()
		board := NewScoreboardModel(m.store, cart.ID(), cart.Title(), m.width, m.height)
		m.board = &board
		m.session.ReleaseAll()
		return m, nil
	}

	if b, ok := m.keys.Button(msg); ok {
		m.session.Press(b)
		m.status = ""
	}
	return m, nil
}

// updateBoard forwards a message to the open scoreboard.
func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	board, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case board.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case board.Closed():
		m.board = nil
	default:
		m.board = &board
	}
	return m, cmd
}

// handleResize keeps the playfield filling the terminal above the help row.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.session.Resize(msg.Width, msg.Height-helpRows)

	if m.board != nil {
		return m.updateBoard(msg)
	}
	return m, nil
}

// handleTick runs one cartridge frame. The cartridge is paused while the
// scoreboard is open.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.board == nil {
		m.session.Step()
	}
	return m, tickCmd(m.tickRate)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}

	var b strings.Builder
	b.WriteString(m.painter.Paint(m.session.Render()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.painter.Muted(m.status))
	} else {
		b.WriteString(m.painter.Muted(m.help.View(m.keys)))
	}
	return b.String()
}

// Run starts the Bubble Tea program for a session on the local terminal.
func Run(session *Session, opts ModelOptions) error {
	model := NewModel(session, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/presence"
	"github.com/vovakirdan/ghostgrid/internal/registry"
	"github.com/vovakirdan/ghostgrid/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ghostgrid/host_key.
	HostKeyPath string

	// DBPath is the path to the run history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the platform tick rate for every session.
	TickRate int

	// Difficulty is the preset highlighted in each session's menu.
	Difficulty string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.ghostgrid/ghostgrid.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server. Every session runs its own engine;
// only the run history and the presence registry are shared.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	presence *presence.Registry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ghostgrid-ssh",
	})
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open run history", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		presence: presence.NewRegistry(),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".ghostgrid", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
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
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	model := NewSessionModel(s.store, cfg, sshSession.User(), s.config.Difficulty).
		WithLogger(s.logger)

	handle := presence.NewChannelSession(presence.SessionID(model.SessionID()), sshSession.User(), 16)
	s.presence.Register(handle)
	go func() {
		<-sshSession.Context().Done()
		s.presence.Unregister(handle.ID())
		handle.Close()
	}()
	model = model.WithPresence(s.presence, handle)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"online", s.presence.Count(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// difficultySetter is implemented by games that take a per-instance preset.
type difficultySetter interface {
	SetDifficulty(preset string) error
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenScoreboard
	screenGame
)

// SessionModel manages one SSH session: menu -> game or scoreboard -> menu.
type SessionModel struct {
	store      *storage.Store
	config     core.RuntimeConfig
	username   string
	sessionID  string
	difficulty string
	logger     *log.Logger

	screen     sessionScreen
	menu       MenuModel
	scoreboard ScoreboardModel
	game       Model
	ruleset    string
	quitting   bool

	presence *presence.Registry
	handle   *presence.ChannelSession
	notices  []presence.Notice // newest last
}

// maxNotices is how many broadcast notices the menu shows.
const maxNotices = 3

// NoticeMsg carries a notice from another session.
type NoticeMsg presence.Notice

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username, difficulty string) SessionModel {
	return SessionModel{
		store:      store,
		config:     cfg,
		username:   username,
		sessionID:  uuid.NewString(),
		difficulty: difficulty,
		logger:     log.Default(),
		menu:       NewMenuModel(store, cfg, difficulty),
	}
}

// WithLogger returns a copy of m logging to l.
func (m SessionModel) WithLogger(l *log.Logger) SessionModel {
	if l != nil {
		m.logger = l.With("session", m.sessionID)
	}
	return m
}

// WithPresence attaches the server's registry and this session's handle.
func (m SessionModel) WithPresence(reg *presence.Registry, h *presence.ChannelSession) SessionModel {
	m.presence = reg
	m.handle = h
	return m
}

// waitForNotice blocks on the session's notice channel until a notice
// arrives or the session ends.
func (m SessionModel) waitForNotice() tea.Cmd {
	if m.handle == nil {
		return nil
	}
	h := m.handle
	return func() tea.Msg {
		select {
		case n := <-h.Notices():
			return NoticeMsg(n)
		case <-h.Done():
			return nil
		}
	}
}

func (m SessionModel) setActivity(a presence.Activity) {
	if m.presence != nil {
		m.presence.SetActivity(presence.SessionID(m.sessionID), a)
	}
}

// SessionID returns the unique ID of this session.
func (m SessionModel) SessionID() string {
	return m.sessionID
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), m.waitForNotice())
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case NoticeMsg:
		m.notices = append(m.notices, presence.Notice(msg))
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		return m, m.waitForNotice()
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menuModel, ok := next.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.screen = screenScoreboard
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.setActivity(presence.Activity{Screen: "scoreboard"})
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		selected := m.menu.Selected()
		game, err := registry.Create(selected.Ruleset)
		if err != nil {
			m.logger.Error("cannot create game", "ruleset", selected.Ruleset, "err", err)
			m.menu = NewMenuModel(m.store, m.config, m.difficulty)
			return m, nil
		}
		m.difficulty = string(m.menu.Difficulty())
		if ds, ok := game.(difficultySetter); ok {
			if err := ds.SetDifficulty(m.difficulty); err != nil {
				m.logger.Warn("ignoring difficulty", "preset", m.difficulty, "err", err)
			}
		}

		m.config.Seed = time.Now().UnixNano()
		m.game = NewModel(game, m.store, m.config, m.username).WithLogger(m.logger)
		m.screen = screenGame
		m.ruleset = selected.Ruleset
		m.setActivity(presence.Activity{Screen: "game", Ruleset: m.ruleset, Level: 1})
		m.logger.Debug("run started", "ruleset", selected.Ruleset, "difficulty", m.difficulty)
		return m, m.game.Init()
	}

	// tea.Quit from the sub-model would end the whole session
	return m, filterQuit(cmd)
}

// updateScoreboard handles updates when the scoreboard is open.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.backToMenu()
	}
	return m, filterQuit(cmd)
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.game.State()
	wasSaved := m.game.RunSaved()
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = gm
	}

	st := m.game.State()
	if st.Level != before.Level {
		m.setActivity(presence.Activity{Screen: "game", Ruleset: m.ruleset, Level: st.Level})
	}
	if !wasSaved && m.game.RunSaved() && st.GameOver && m.presence != nil {
		m.presence.Broadcast(presence.SessionID(m.sessionID),
			fmt.Sprintf("traced on %s level %d with %d points", m.ruleset, st.Level, st.Score))
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.game = Model{}
	m.ruleset = ""
	m.setActivity(presence.Activity{Screen: "menu"})
	m.menu = NewMenuModel(m.store, m.config, m.difficulty)
	return m, m.menu.Init()
}

// filterQuit drops tea.Quit commands issued by a sub-screen that handed
// control back to the session.
func filterQuit(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return nil
		}
		return msg
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	}
	return m.menu.View() + m.presenceView()
}

// presenceView lists who else is connected and the latest notices.
func (m SessionModel) presenceView() string {
	if m.presence == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render(
		fmt.Sprintf("%d online, %d in a run", m.presence.Count(), m.presence.Playing())), m.config.ScreenW))
	for _, n := range m.notices {
		b.WriteString("\n")
		b.WriteString(centerText(menuDimStyle.Render(n.At.Format("15:04")+" "+n.From+" "+n.Text), m.config.ScreenW))
	}
	return b.String()
}

// Screen reports which screen the session shows; used by tests.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenGame:
		return "game"
	case screenScoreboard:
		return "scoreboard"
	}
	return "menu"
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ghostgrid/internal/registry"
	"github.com/vovakirdan/ghostgrid/internal/storage"
)

const (
	statsPanelMinWidth = 100
	statsPanelWidth    = 26
	historyLimit       = 100
)

// historyView selects which runs the scoreboard lists.
type historyView int

const (
	viewBest historyView = iota
	viewRecent
)

func (v historyView) String() string {
	if v == viewRecent {
		return "recent"
	}
	return "best"
}

// HistoryKeys are the scoreboard bindings. Row scrolling is left to the
// table's own keymap.
type HistoryKeys struct {
	NextRuleset key.Binding
	PrevRuleset key.Binding
	ToggleView  key.Binding
	Back        key.Binding
	Quit        key.Binding
}

func (k HistoryKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevRuleset, k.NextRuleset, k.ToggleView, k.Back, k.Quit}
}

func (k HistoryKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultHistoryKeys() HistoryKeys {
	return HistoryKeys{
		NextRuleset: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next ruleset")),
		PrevRuleset: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev ruleset")),
		ToggleView:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "best/recent")),
		Back:        key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	historyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	historyTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	historyActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	historyFrame      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	historyEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
)

// ScoreboardModel lists stored runs per ruleset, either the best or the
// most recent ones.
type ScoreboardModel struct {
	store    *storage.Store
	rulesets []registry.GameInfo
	selected int
	view     historyView

	runs  []storage.Run
	stats map[string]*storage.RunStats

	table table.Model
	keys  HistoryKeys
	help  help.Model

	width, height int
	back, quit    bool
}

// NewScoreboardModel creates a scoreboard sized for width x height. A nil
// store shows empty history.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:    store,
		rulesets: registry.List(),
		keys:     defaultHistoryKeys(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	m.table = newHistoryTable(m.tableWidth(), height)
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= statsPanelMinWidth }

func (m ScoreboardModel) tableWidth() int {
	w := m.width - 4
	if m.wide() {
		w -= statsPanelWidth + 4
	}
	return w
}

func (m ScoreboardModel) ruleset() string {
	if len(m.rulesets) == 0 {
		return ""
	}
	return m.rulesets[m.selected].ID
}

// newHistoryTable builds the runs table. Narrow tables drop the date and
// shrink the player column.
func newHistoryTable(width, height int) table.Model {
	player, date := 12, 12
	if width < 72 {
		player = 8
	}
	if width < 60 {
		date = 0
	}
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: player},
		{Title: "Score", Width: 8},
		{Title: "Lvl", Width: 4},
		{Title: "Coins", Width: 6},
		{Title: "End", Width: 7},
		{Title: "Time", Width: 6},
		{Title: "Date", Width: date},
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("14")).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("240"))
	styles.Selected = styles.Selected.Bold(false).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))

	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(max(height-10, 3)),
		table.WithFocused(true),
	)
	t.SetStyles(styles)
	return t
}

// reload refreshes runs and stats from the store for the current view.
func (m *ScoreboardModel) reload() {
	m.runs = nil
	m.stats = nil
	if m.store != nil {
		if all, err := m.store.AllStats(); err == nil {
			m.stats = all
		}
		m.runs = m.fetchRuns()
	}

	rows := make([]table.Row, 0, len(m.runs))
	for i, r := range m.runs {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Player,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Level),
			strconv.Itoa(r.Coins),
			r.EndReason,
			formatDuration(r.Duration),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) fetchRuns() []storage.Run {
	id := m.ruleset()
	if m.view == viewBest {
		runs, err := m.store.TopRuns(id, historyLimit)
		if err != nil {
			return nil
		}
		return runs
	}

	recent, err := m.store.RecentRuns(historyLimit)
	if err != nil {
		return nil
	}
	runs := recent[:0]
	for _, r := range recent {
		if r.Ruleset == id {
			runs = append(runs, r)
		}
	}
	return runs
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (m ScoreboardModel) Init() tea.Cmd { return nil }

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newHistoryTable(m.tableWidth(), m.height)
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextRuleset):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevRuleset):
			m.cycle(-1)
			return m, nil
		case key.Matches(msg, m.keys.ToggleView):
			m.view = 1 - m.view
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// cycle moves the ruleset selection by delta, wrapping at both ends.
func (m *ScoreboardModel) cycle(delta int) {
	n := len(m.rulesets)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
	m.reload()
}

func (m ScoreboardModel) View() string {
	if m.quit || m.back {
		return ""
	}

	title := "RUN HISTORY"
	if len(m.rulesets) > 0 {
		title = fmt.Sprintf("RUN HISTORY  %s  (%s)", m.rulesets[m.selected].Title, m.view)
	}

	body := historyFrame.Render(m.runsView())
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			historyFrame.Width(statsPanelWidth).Render(m.statsPanel()), "  ", body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		centerText(historyTitleStyle.Render(title), m.width),
		centerText(m.tabs(), m.width),
		"",
		body,
		menuDimStyle.Render(m.help.View(m.keys)),
	)
}

func (m ScoreboardModel) tabs() string {
	parts := make([]string, len(m.rulesets))
	for i, g := range m.rulesets {
		style := historyTabStyle
		if i == m.selected {
			style = historyActiveTab
		}
		parts[i] = style.Render(g.ID)
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.rulesets) > 0 {
		line = historyActiveTab.Render("< " + m.ruleset() + " >")
	}
	return line
}

func (m ScoreboardModel) runsView() string {
	if len(m.runs) == 0 {
		return historyEmptyStyle.Render("no runs yet\nget traced or bail out to leave a mark")
	}
	return m.table.View()
}

// statsPanel summarises every ruleset, highlighting the selected one.
func (m ScoreboardModel) statsPanel() string {
	var b strings.Builder
	for i, g := range m.rulesets {
		name := truncate(g.Title, statsPanelWidth-4)
		if i == m.selected {
			name = menuCursorStyle.Render(name)
		}
		b.WriteString(name)
		b.WriteString("\n")

		st := m.stats[g.ID]
		if st == nil || st.Runs == 0 {
			b.WriteString(menuDimStyle.Render("  no runs yet"))
		} else {
			fmt.Fprintf(&b, "  best %d  lvl %d\n", st.HighScore, st.BestLevel)
			fmt.Fprintf(&b, "  %d runs  avg %.0f", st.Runs, st.AvgScore)
		}
		if i < len(m.rulesets)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// Runs returns the runs currently listed.
func (m ScoreboardModel) Runs() []storage.Run { return m.runs }

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool { return m.back }

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool { return m.quit }

// RunScoreboard shows the scoreboard full screen. goBack is true when the
// user returned to the menu rather than quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(ScoreboardModel); ok {
		return m.IsGoingBack(), nil
	}
	return false, nil
}

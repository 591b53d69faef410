// Package ui hosts the director console: a bubbletea program whose Update
// loop is the single logical thread the orchestration session runs on.
// Network calls live in tea.Cmd closures and re-enter as typed messages; the
// session's tokens decide whether a landed response still matters.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"shadownet/internal/api"
	"shadownet/internal/archive"
	"shadownet/internal/config"
	"shadownet/internal/console"
)

const autoRoute = -1

type Model struct {
	cfg     config.Config
	client  *api.Client
	session *console.Session
	store   *archive.Store

	statusLine    string
	statusIsError bool
	archiveWarned bool
	targetIndex   int
	history       []api.Transmission
	historyOpen   bool

	width  int
	height int

	input   textinput.Model
	logView viewport.Model
	brief   viewport.Model
	spin    spinner.Model

	theme theme
}

type startTurnDoneMsg struct {
	tok console.Token
	res api.StartTurnResult
	err error
}

type endTurnDoneMsg struct {
	tok console.Token
	res api.EndTurnResult
	err error
}

type orderDoneMsg struct {
	tok console.Token
	res api.OrderResult
	err error
}

type newGameDoneMsg struct {
	tok console.Token
	err error
}

type ackDoneMsg struct {
	tok    console.Token
	status string
	err    error
}

type refreshDoneMsg struct {
	tok    console.RefreshToken
	world  api.WorldState
	roster []api.Operative
	err    error
}

type alertExpiryMsg struct {
	tok console.ExpiryToken
}

type audioDoneMsg struct {
	path string
}

type archiveDoneMsg struct {
	err error
}

type historyDoneMsg struct {
	entries []api.Transmission
	err     error
}

func New(cfg config.Config, client *api.Client, store *archive.Store) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = "Issue an order, Director. Slash commands: /help"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = newTheme().status

	logView := viewport.New(0, 0)
	logView.MouseWheelEnabled = true
	brief := viewport.New(0, 0)
	brief.MouseWheelEnabled = true

	return Model{
		cfg:         cfg,
		client:      client,
		session:     console.NewSession(),
		store:       store,
		statusLine:  "Initializing secure connection...",
		targetIndex: autoRoute,
		input:       input,
		logView:     logView,
		brief:       brief,
		spin:        sp,
		theme:       newTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.refreshCmd(m.session.BeginRefresh()),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case startTurnDoneMsg:
		if msg.err != nil {
			if m.session.Fail(msg.tok) {
				m.setError(fmt.Sprintf("Error: %v", msg.err))
			}
			break
		}
		if !m.session.ApplyStartTurn(msg.tok, msg.res) {
			break
		}
		if m.session.Phase() == console.PhaseGameOver {
			break
		}
		m.setStatus("Turn started. Awaiting your orders, Director.")
		m.renderPanes()
		cmds = append(cmds, m.refreshCmd(m.session.BeginRefresh()))

	case endTurnDoneMsg:
		if msg.err != nil {
			if m.session.Fail(msg.tok) {
				m.setError(fmt.Sprintf("Error: %v", msg.err))
			}
			break
		}
		expiry, scheduled, applied := m.session.ApplyEndTurn(msg.tok, msg.res)
		if !applied {
			break
		}
		if m.session.Phase() == console.PhaseGameOver {
			break
		}
		if scheduled {
			cmds = append(cmds, m.alertExpiryCmd(expiry))
		}
		m.setStatus(fmt.Sprintf("Turn %d ready. Threat level: %s.", msg.res.NewTurn, msg.res.ThreatLevel))
		m.renderPanes()
		cmds = append(cmds, m.refreshCmd(m.session.BeginRefresh()))

	case orderDoneMsg:
		if msg.err != nil {
			if m.session.Fail(msg.tok) {
				m.setError(fmt.Sprintf("Transmission error: %v", msg.err))
			}
			break
		}
		if !m.session.ApplyOrder(msg.tok, msg.res) {
			break
		}
		if m.session.Phase() == console.PhaseGameOver {
			break
		}
		m.setStatus("Transmission received. Awaiting further orders.")
		m.renderPanes()
		m.logView.GotoBottom()
		if m.store != nil && msg.res.Transmission != nil {
			cmds = append(cmds, m.archiveCmd(*msg.res.Transmission))
		}
		cmds = append(cmds, m.refreshCmd(m.session.BeginRefresh()))

	case newGameDoneMsg:
		if msg.err != nil {
			if m.session.Fail(msg.tok) {
				m.setError(fmt.Sprintf("Error: %v", msg.err))
			}
			break
		}
		if !m.session.ApplyNewGame(msg.tok) {
			break
		}
		m.setStatus("New operation initialized. All systems nominal.")
		m.renderPanes()
		cmds = append(cmds, m.refreshCmd(m.session.BeginRefresh()))

	case ackDoneMsg:
		if msg.err != nil {
			if m.session.Fail(msg.tok) {
				m.setError(fmt.Sprintf("Error: %v", msg.err))
			}
			break
		}
		if !m.session.ApplyAck(msg.tok) {
			break
		}
		m.setStatus(msg.status)
		cmds = append(cmds, m.refreshCmd(m.session.BeginRefresh()))

	case refreshDoneMsg:
		if msg.err != nil {
			// Keep the previous snapshots; a failed refresh is not fatal.
			m.setError(fmt.Sprintf("State refresh failed: %v", msg.err))
			break
		}
		if m.session.ApplyRefresh(msg.tok, msg.world, msg.roster) {
			m.clampTarget()
			m.renderPanes()
			if m.statusLine == "Initializing secure connection..." {
				m.setStatus("Secure connection established. Ready for operations.")
			}
		}

	case alertExpiryMsg:
		if m.session.ExpireNonCritical(msg.tok) {
			m.renderPanes()
		}

	case audioDoneMsg:
		if msg.path == "" {
			m.setStatus("No audio available.")
		} else {
			m.setStatus("Transmission audio saved: " + msg.path)
		}

	case archiveDoneMsg:
		if msg.err != nil && !m.archiveWarned {
			m.archiveWarned = true
			m.setError(fmt.Sprintf("Archive write failed (archiving disabled for this session): %v", msg.err))
		}

	case historyDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Archive read failed: %v", msg.err))
			break
		}
		m.history = msg.entries
		m.historyOpen = true
		m.renderPanes()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderPanes()

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		return m.handleKey(msg, cmds)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.session.GameOver() != nil {
		switch msg.String() {
		case "n", "N", "enter":
			cmds = append(cmds, m.beginNewGame())
		case "q", "esc":
			return m, tea.Quit
		}
		return m, tea.Batch(cmds...)
	}

	if m.historyOpen {
		switch msg.String() {
		case "esc", "q", "enter":
			m.historyOpen = false
			m.renderPanes()
		}
		return m, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "ctrl+s":
		cmds = append(cmds, m.beginStartTurn())
		return m, tea.Batch(cmds...)
	case "ctrl+e":
		cmds = append(cmds, m.beginEndTurn())
		return m, tea.Batch(cmds...)
	case "ctrl+n":
		cmds = append(cmds, m.beginNewGame())
		return m, tea.Batch(cmds...)
	case "ctrl+d":
		if m.session.DismissAlert(0) {
			m.renderPanes()
		}
		return m, tea.Batch(cmds...)
	case "ctrl+p":
		cmds = append(cmds, m.beginAudio())
		return m, tea.Batch(cmds...)
	case "tab":
		m.cycleTarget(1)
		m.renderPanes()
		return m, tea.Batch(cmds...)
	case "shift+tab":
		m.cycleTarget(-1)
		m.renderPanes()
		return m, tea.Batch(cmds...)
	case "pgup":
		m.logView.LineUp(8)
		return m, tea.Batch(cmds...)
	case "pgdown":
		m.logView.LineDown(8)
		return m, tea.Batch(cmds...)
	case "esc":
		return m, tea.Quit
	case "enter":
		raw := strings.TrimSpace(m.input.Value())
		if raw == "" {
			return m, tea.Batch(cmds...)
		}
		if strings.HasPrefix(raw, "/") {
			m.input.SetValue("")
			if cmd := m.handleSlash(raw); cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}
		if cmd := m.beginOrder(raw); cmd != nil {
			m.input.SetValue("")
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSlash(raw string) tea.Cmd {
	parts := strings.Fields(raw)
	switch parts[0] {
	case "/start":
		return m.beginStartTurn()
	case "/end":
		return m.beginEndTurn()
	case "/new":
		return m.beginNewGame()
	case "/respond":
		if len(parts) < 2 {
			m.setError("usage: /respond <action number>")
			return nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.setError("usage: /respond <action number>")
			return nil
		}
		return m.beginEventResponse(n - 1)
	case "/extract":
		codename := m.targetCodename()
		if len(parts) > 1 {
			codename = strings.ToUpper(parts[1])
		}
		if codename == "" {
			m.setError("usage: /extract <codename> (or select an operative with tab)")
			return nil
		}
		return m.beginExtraction(codename)
	case "/dismiss":
		index := 0
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 {
				m.setError("usage: /dismiss <alert number>")
				return nil
			}
			index = n - 1
		}
		if m.session.DismissAlert(index) {
			m.renderPanes()
		}
		return nil
	case "/audio":
		return m.beginAudio()
	case "/history":
		if m.store == nil {
			m.setError("No archive configured (set SHADOWNET_ARCHIVE_DB).")
			return nil
		}
		return m.historyCmd()
	case "/help":
		m.setStatus("ctrl+s start turn · ctrl+e end turn · ctrl+n new game · tab target · ctrl+d dismiss alert · /respond /extract /audio /history")
		return nil
	default:
		m.setError("Unknown command: " + parts[0])
		return nil
	}
}

func (m *Model) setStatus(text string) {
	m.statusLine = text
	m.statusIsError = false
}

func (m *Model) setError(text string) {
	m.statusLine = text
	m.statusIsError = true
}

func (m *Model) cycleTarget(delta int) {
	roster := m.session.Operatives()
	if len(roster) == 0 {
		m.targetIndex = autoRoute
		return
	}
	// Cycle through AUTO-ROUTE plus every operative.
	span := len(roster) + 1
	pos := m.targetIndex + 1
	pos = (pos + delta + span) % span
	m.targetIndex = pos - 1
}

func (m *Model) clampTarget() {
	if m.targetIndex >= len(m.session.Operatives()) {
		m.targetIndex = autoRoute
	}
}

func (m *Model) targetCodename() string {
	roster := m.session.Operatives()
	if m.targetIndex < 0 || m.targetIndex >= len(roster) {
		return ""
	}
	return roster[m.targetIndex].Codename
}

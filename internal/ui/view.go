package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shadownet/internal/api"
)

const (
	sidebarWidth  = 38
	signalBarSize = 10
)

func (m *Model) resize() {
	contentWidth := m.width - sidebarWidth - 6
	if contentWidth < 20 {
		contentWidth = 20
	}
	contentHeight := m.height - 10
	if contentHeight < 6 {
		contentHeight = 6
	}
	m.logView.Width = contentWidth
	m.logView.Height = contentHeight * 2 / 3
	m.brief.Width = contentWidth
	m.brief.Height = contentHeight - m.logView.Height
	m.input.Width = m.width - 8
}

func (m *Model) renderPanes() {
	if m.historyOpen {
		m.logView.SetContent(m.renderHistory())
	} else {
		m.logView.SetContent(m.renderTransmissions())
	}
	m.brief.SetContent(m.renderBrief())
}

func (m Model) View() string {
	if m.width == 0 {
		return "establishing console..."
	}
	if over := m.session.GameOver(); over != nil {
		return m.renderGameOver(over)
	}

	sections := []string{m.renderHeader()}
	if alerts := m.renderAlerts(); alerts != "" {
		sections = append(sections, alerts)
	}

	left := lipgloss.JoinVertical(lipgloss.Left, m.renderWorld(), m.renderRoster())
	logTitle := "TRANSMISSION LOG"
	if m.historyOpen {
		logTitle = "ARCHIVE (esc to close)"
	}
	right := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.panel.Render(m.theme.panelTitle.Render(logTitle)+"\n"+m.logView.View()),
		m.theme.panel.Render(m.theme.panelTitle.Render("INTEL BRIEF")+"\n"+m.brief.View()),
	)
	sections = append(sections,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.theme.inputPanel.Render(m.input.View()),
		m.renderFooter(),
	)
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader() string {
	world := m.session.World()
	if world == nil {
		return m.theme.header.Render("SHADOW NETWORK // DIRECTOR CONSOLE — awaiting first state sync")
	}
	parts := []string{
		"SHADOW NETWORK",
		m.theme.headerKey.Render("TURN ") + m.theme.bandGood.Render(fmt.Sprintf("%d", world.Turn)),
		m.theme.headerKey.Render("THREAT ") + m.theme.threatStyle(world.ThreatLevel).Render(world.ThreatLevel),
		m.theme.headerKey.Render("EXPOSURE ") + m.theme.exposureStyle(world.AgencyExposureLevel).Render(fmt.Sprintf("%d%%", world.AgencyExposureLevel)),
		m.theme.headerKey.Render("TRUST ") + m.theme.trustStyle(world.DirectorTrustScore).Render(fmt.Sprintf("%d%%", world.DirectorTrustScore)),
		m.theme.headerKey.Render("PHASE ") + strings.ToUpper(m.session.Phase().String()),
	}
	return m.theme.header.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderAlerts() string {
	alerts := m.session.Alerts()
	if len(alerts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		title := alert.Title
		if title == "" {
			title = "ALERT"
		}
		narration := compact(alert.Narration, 200)
		if narration == "" {
			narration = "Details pending..."
		}
		lines = append(lines, m.theme.alertStyle(alert.Severity).Render(title+" — "+narration))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderWorld() string {
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("WORLD MAP"))
	b.WriteString("\n")
	world := m.session.World()
	if world == nil {
		b.WriteString(m.theme.dimText.Render("no signal"))
		return m.theme.panel.Width(sidebarWidth).Render(b.String())
	}

	keys := make([]string, 0, len(world.Regions))
	for key := range world.Regions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		region := world.Regions[key]
		bar := meter(region.Tension, signalBarSize)
		line := fmt.Sprintf("%-14s %s %3d", compact(region.Name, 14), bar, region.Tension)
		b.WriteString(line)
		if n := len(region.ActiveMissions); n > 0 {
			b.WriteString(m.theme.dimText.Render(fmt.Sprintf(" (%d op)", n)))
		}
		b.WriteString("\n")
	}
	if len(world.CompromisedAssets) > 0 {
		b.WriteString(m.theme.bandBad.Render("COMPROMISED: " + strings.Join(world.CompromisedAssets, ", ")))
		b.WriteString("\n")
	}
	return m.theme.panel.Width(sidebarWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderRoster() string {
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("OPERATIVES"))
	b.WriteString("\n")

	marker := "  "
	if m.targetIndex == autoRoute {
		marker = "▸ "
	}
	b.WriteString(marker + m.theme.dimText.Render("AUTO-ROUTE") + "\n")

	for i, op := range m.session.Operatives() {
		marker = "  "
		if i == m.targetIndex {
			marker = "▸ "
		}
		line := fmt.Sprintf("%s%s %-8s %s %3d%%",
			marker,
			statusDot(op.Status),
			compact(op.Codename, 8),
			meter(op.SignalQuality, signalBarSize),
			op.SignalQuality,
		)
		b.WriteString(m.theme.codename.Render(line))
		if op.MissionCount > 0 {
			b.WriteString(m.theme.dimText.Render(fmt.Sprintf(" ×%d", op.MissionCount)))
		}
		b.WriteString("\n")
	}
	return m.theme.panel.Width(sidebarWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTransmissions() string {
	log := m.session.Transmissions()
	if len(log) == 0 {
		return m.theme.dimText.Render("Issue an order to begin")
	}
	var b strings.Builder
	for _, tx := range log {
		header := m.theme.codename.Render(tx.Codename)
		if tx.RiskLevel != "" {
			if style, ok := m.theme.risk[tx.RiskLevel]; ok {
				header += " " + style.Render("["+strings.ToUpper(tx.RiskLevel)+"]")
			}
		}
		header += m.theme.dimText.Render(fmt.Sprintf("  T%d", tx.Turn))
		b.WriteString(header + "\n")
		b.WriteString(m.theme.dimText.Render("» "+compact(tx.Order, 160)) + "\n")
		b.WriteString(m.theme.orderText.Render(tx.Response) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return m.theme.dimText.Render("Archive is empty")
	}
	var b strings.Builder
	for _, tx := range m.history {
		b.WriteString(m.theme.codename.Render(tx.Codename) + m.theme.dimText.Render("  "+tx.Timestamp) + "\n")
		b.WriteString(m.theme.dimText.Render("» "+compact(tx.Order, 160)) + "\n")
		b.WriteString(m.theme.orderText.Render(compact(tx.Response, 300)) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderBrief() string {
	var b strings.Builder
	if event := m.session.CurrentEvent(); event != nil {
		b.WriteString(m.theme.eventTitle.Render(event.EventTitle) + "\n")
		b.WriteString(event.EventDescription + "\n")
		for i, action := range event.SuggestedActions {
			b.WriteString(m.theme.dimText.Render(fmt.Sprintf("  %d. ", i+1)) + action + "\n")
		}
		if len(event.SuggestedActions) > 0 {
			b.WriteString(m.theme.dimText.Render("respond with /respond <n>") + "\n")
		}
		b.WriteString("\n")
	}
	if briefing := m.session.Briefing(); briefing != "" {
		b.WriteString(briefing)
	} else if b.Len() == 0 {
		b.WriteString(m.theme.dimText.Render("No active briefing. Start a turn with ctrl+s."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderFooter() string {
	status := m.statusLine
	if m.session.Busy() {
		status = m.spin.View() + " " + status
	}
	style := m.theme.status
	if m.statusIsError {
		style = m.theme.errStatus
	}
	help := m.theme.helpText.Render("ctrl+s turn · ctrl+e end · ctrl+n reset · tab target · /help")
	return m.theme.footer.Render(style.Render(status) + "  " + help)
}

func (m Model) renderGameOver(over *api.GameOverState) string {
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.gameOverTitle.Render("◆ GAME OVER ◆"),
		"",
		m.theme.gameOverBody.Render(over.Reason),
		"",
		m.theme.dimText.Render("TYPE: "+strings.ToUpper(over.Type)),
		"",
		m.theme.bandGood.Render("[n] new operation   [q] quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.theme.panel.Render(body))
}

func statusDot(status string) string {
	switch status {
	case api.OperativeActive:
		return "●"
	case api.OperativeDark:
		return "◐"
	case api.OperativeCompromised:
		return "✕"
	case api.OperativeExtracted:
		return "○"
	default:
		return "?"
	}
}

func meter(value, width int) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := value * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func compact(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if limit > 0 && len(text) > limit {
		return text[:limit] + "…"
	}
	return text
}

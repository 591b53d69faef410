package ui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	root       lipgloss.Style
	header     lipgloss.Style
	headerKey  lipgloss.Style
	panel      lipgloss.Style
	panelTitle lipgloss.Style
	footer     lipgloss.Style
	status     lipgloss.Style
	errStatus  lipgloss.Style
	inputPanel lipgloss.Style
	helpText   lipgloss.Style

	bandGood lipgloss.Style
	bandWarn lipgloss.Style
	bandBad  lipgloss.Style

	codename   lipgloss.Style
	orderText  lipgloss.Style
	dimText    lipgloss.Style
	eventTitle lipgloss.Style

	alertInfo     lipgloss.Style
	alertWarning  lipgloss.Style
	alertCritical lipgloss.Style

	gameOverTitle lipgloss.Style
	gameOverBody  lipgloss.Style

	risk map[string]lipgloss.Style
}

func newTheme() theme {
	green := lipgloss.Color("#33ff66")
	amber := lipgloss.Color("#ffbf00")
	red := lipgloss.Color("#ff4444")
	bg := lipgloss.Color("#0a0f0a")
	panelBg := lipgloss.Color("#101810")
	text := lipgloss.Color("#d8e8d8")
	muted := lipgloss.Color("#5f7f5f")

	return theme{
		root: lipgloss.NewStyle().
			Background(bg).
			Foreground(text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(green).
			Padding(0, 1),
		headerKey: lipgloss.NewStyle().Foreground(muted),
		panel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Foreground(green).Bold(true),
		footer: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		status:    lipgloss.NewStyle().Foreground(green).Bold(true),
		errStatus: lipgloss.NewStyle().Foreground(red).Bold(true),
		inputPanel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(green).
			Padding(0, 1),
		helpText: lipgloss.NewStyle().Foreground(muted),

		bandGood: lipgloss.NewStyle().Foreground(green).Bold(true),
		bandWarn: lipgloss.NewStyle().Foreground(amber).Bold(true),
		bandBad:  lipgloss.NewStyle().Foreground(red).Bold(true),

		codename:   lipgloss.NewStyle().Foreground(green).Bold(true),
		orderText:  lipgloss.NewStyle().Foreground(text),
		dimText:    lipgloss.NewStyle().Foreground(muted),
		eventTitle: lipgloss.NewStyle().Foreground(amber).Bold(true),

		alertInfo:     lipgloss.NewStyle().Foreground(text).BorderStyle(lipgloss.NormalBorder()).BorderForeground(muted).Padding(0, 1),
		alertWarning:  lipgloss.NewStyle().Foreground(amber).BorderStyle(lipgloss.NormalBorder()).BorderForeground(amber).Padding(0, 1),
		alertCritical: lipgloss.NewStyle().Foreground(red).Bold(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(red).Padding(0, 1),

		gameOverTitle: lipgloss.NewStyle().Foreground(red).Bold(true),
		gameOverBody:  lipgloss.NewStyle().Foreground(text),

		risk: map[string]lipgloss.Style{
			"low":      lipgloss.NewStyle().Foreground(green),
			"medium":   lipgloss.NewStyle().Foreground(amber),
			"high":     lipgloss.NewStyle().Foreground(red),
			"critical": lipgloss.NewStyle().Foreground(red).Bold(true),
		},
	}
}

// Color bands from the original console: trust reads high-is-good, exposure
// reads low-is-good.
func (t theme) trustStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return t.bandGood
	case score >= 40:
		return t.bandWarn
	default:
		return t.bandBad
	}
}

func (t theme) exposureStyle(level int) lipgloss.Style {
	switch {
	case level <= 30:
		return t.bandGood
	case level <= 60:
		return t.bandWarn
	default:
		return t.bandBad
	}
}

func (t theme) threatStyle(level string) lipgloss.Style {
	switch level {
	case "LOW":
		return t.bandGood
	case "MODERATE", "HIGH":
		return t.bandWarn
	case "CRITICAL":
		return t.bandBad
	default:
		return t.dimText
	}
}

func (t theme) alertStyle(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return t.alertCritical
	case "warning":
		return t.alertWarning
	default:
		return t.alertInfo
	}
}

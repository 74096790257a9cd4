package tui

import "github.com/charmbracelet/lipgloss"

// Table palette
const (
	colorFelt   = lipgloss.Color("#04B575")
	colorChalk  = lipgloss.Color("#FAFAFA")
	colorBanner = lipgloss.Color("#7D56F4")
	colorMint   = lipgloss.Color("#96CEB4")
	colorGold   = lipgloss.Color("#FFD700")
	colorHearts = lipgloss.Color("#FF6B6B")
	colorCream  = lipgloss.Color("#FFEAA7")
	colorMuted  = lipgloss.Color("#626262")
)

var bold = lipgloss.NewStyle().Bold(true)

// Styles for content elements
var (
	HeaderStyle     = bold.Foreground(colorChalk).Background(colorBanner)
	HandInfoStyle   = bold.Foreground(colorMint)
	ActionsStyle    = bold.Foreground(colorGold)
	RedCardStyle    = bold.Foreground(colorHearts)
	BlackCardStyle  = bold.Foreground(colorChalk)
	PlayerInfoStyle = lipgloss.NewStyle().Foreground(colorChalk)

	SuccessStyle = bold.Foreground(colorMint)
	ErrorStyle   = bold.Foreground(colorHearts)
	WarningStyle = bold.Foreground(colorCream)
	InfoStyle    = lipgloss.NewStyle().Foreground(colorMuted)

	helpStyle = InfoStyle
)

// paneStyle is the rounded border around each pane, highlighted when the
// pane has focus
func paneStyle(focused bool) lipgloss.Style {
	border := colorMuted
	if focused {
		border = colorFelt
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

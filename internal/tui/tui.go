package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

// TUIModel represents the Bubble Tea model for a blackjack channel
type TUIModel struct {
	logger *log.Logger
	player string

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog      []string
	actionResult chan ActionResult
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Display state, driven by server messages
	channel string
	members []string
	state   *game.State
	pending *protocol.MoveRequestData

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// ActionResult is a line the user submitted
type ActionResult struct {
	Action   string   // first word, lowercased
	Args     []string // remaining words
	Text     string   // the whole line as typed
	Continue bool
}

// Messages delivered to the model by the bridge
type (
	ChannelJoinedMsg protocol.ChannelJoinedData
	RoundStartedMsg  protocol.RoundStartedData
	StateMsg         protocol.RoundStateData
	MoveRequestMsg   protocol.MoveRequestData
	ResultMsg        protocol.RoundResultData
	RoundEndedMsg    protocol.RoundEndedData
	ServerErrorMsg   protocol.ErrorData

	// ActionErrorMsg reports a failure to send a command
	ActionErrorMsg struct{ Err error }

	// DisconnectedMsg is sent when the server connection drops
	DisconnectedMsg struct{}
)

const helpText = `Commands:
  /join #channel       join a channel
  /start [player ...]  deal a round for you and the named players
  /help                show this help
  /quit                exit
Anything else is sent to the channel. On your turn type a move:
  hit (h), stand (s), double (d), split (p), surrender (r)`

// NewTUIModel creates a new TUI model for player
func NewTUIModel(player string, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(player, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(player string, logger *log.Logger, testMode bool) *TUIModel {
	// Properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Type /help for commands"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 100
	ti.PromptStyle = bold.Foreground(colorFelt)
	ti.TextStyle = PlayerInfoStyle
	ti.Prompt = "> "

	return &TUIModel{
		logger:       logger.WithPrefix("tui"),
		player:       player,
		logViewport:  vp,
		actionInput:  ti,
		gameLog:      []string{},
		actionResult: make(chan ActionResult, 16),
		focusedPane:  1, // Start with input focused
		testMode:     testMode,
		capturedLog:  []string{},
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updated dimensions", "width", m.width, "height", m.height)

	case ChannelJoinedMsg:
		m.channel = msg.Channel
		m.members = msg.Members
		m.AddLogEntry(fmt.Sprintf("Joined %s (%s)", msg.Channel, strings.Join(msg.Members, ", ")))

	case RoundStartedMsg:
		m.pending = nil
		m.AddLogEntry("")
		m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf("Round %s", msg.RoundID)) + " " + strings.Join(msg.Players, ", "))

	case StateMsg:
		state := msg.State
		m.state = &state
		if msg.Message != "" {
			m.AddLogEntry(msg.Message)
		}

	case MoveRequestMsg:
		req := protocol.MoveRequestData(msg)
		m.pending = &req
		if req.Rejected != "" {
			m.AddLogEntry(ErrorStyle.Render(req.Rejected))
		}
		m.AddLogEntry(fmt.Sprintf("Your turn: %s against %s", FormatHand(req.Hand), FormatCards([]deck.Card{req.DealerUpcard})))

	case ResultMsg:
		for _, r := range msg.Outcome.Results {
			label := r.Name
			if len(msg.Outcome.ResultsFor(r.ParticipantID)) > 1 {
				label = fmt.Sprintf("%s (hand %d)", r.Name, r.HandIndex+1)
			}
			m.AddLogEntry(fmt.Sprintf("  %s: %s %s", label, FormatCards(r.Hand.Cards), resultStyle(r.Result).Render(r.Result.String())))
		}

	case RoundEndedMsg:
		m.pending = nil
		if msg.Reason == game.ReasonAborted {
			m.AddLogEntry(WarningStyle.Render(msg.Message))
		}

	case ServerErrorMsg:
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Error: %s", msg.Message)))

	case ActionErrorMsg:
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Error: %v", msg.Err)))

	case DisconnectedMsg:
		m.pending = nil
		m.AddLogEntry(ErrorStyle.Render("Disconnected from server"))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				line := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processAction(line); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) quit() tea.Cmd {
	m.quitting = true
	m.emit(ActionResult{Action: "quit", Continue: false})
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// processAction handles a submitted line. Local commands are handled
// here; everything else goes to the bridge.
func (m *TUIModel) processAction(line string) tea.Cmd {
	if line == "" {
		return nil
	}

	parts := strings.Fields(line)
	action := strings.ToLower(parts[0])

	switch action {
	case "/quit", "/exit":
		return m.quit()
	case "/help":
		for _, l := range strings.Split(helpText, "\n") {
			m.AddLogEntry(l)
		}
		return nil
	}

	if !strings.HasPrefix(action, "/") {
		if m.channel == "" {
			m.AddLogEntry(ErrorStyle.Render("Join a channel first: /join #blackjack"))
			return nil
		}
		if _, ok := game.ParseMove(line); ok && m.pending != nil {
			m.pending = nil
		}
		m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("<%s> %s", m.player, line)))
	}

	m.emit(ActionResult{
		Action:   action,
		Args:     parts[1:],
		Text:     line,
		Continue: true,
	})
	return nil
}

// emit hands an action to the bridge without ever blocking the UI
func (m *TUIModel) emit(result ActionResult) {
	select {
	case m.actionResult <- result:
	default:
		m.logger.Warn("Dropping action, bridge is not keeping up", "action", result.Action)
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := paneStyle(m.focusedPane == 1).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 30)
	paneHeight := max(m.height-actionHeight-4, 1) // borders of both rows

	sidebarPane := paneStyle(false).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	// On first proper sizing, jump to the newest entries
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := paneStyle(m.focusedPane == 0).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows the channel and the latest table snapshot
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	if m.channel == "" {
		content.WriteString(InfoStyle.Render("Not in a channel"))
		return content.String()
	}

	content.WriteString(WarningStyle.Render(m.channel))
	content.WriteString(InfoStyle.Render(fmt.Sprintf(" %d here", len(m.members))))
	content.WriteString("\n\n")

	if m.state != nil {
		content.WriteString(RenderTable(*m.state))
	} else {
		content.WriteString(InfoStyle.Render("No round yet"))
	}
	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	if m.pending != nil {
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand %d of %d: ", m.pending.HandIndex+1, m.pending.HandCount)))
		content.WriteString(FormatHand(m.pending.Hand))
		content.WriteString("  Dealer shows ")
		content.WriteString(FormatCards([]deck.Card{m.pending.DealerUpcard}))
		content.WriteString("\n")
		content.WriteString(RenderMoves(m.pending.ValidMoves))
		content.WriteString(InfoStyle.Render(fmt.Sprintf("  (%ds)", m.pending.TimeoutSeconds)))
		content.WriteString("\n")
		m.actionInput.Placeholder = "hit, stand, double, split or surrender"
	} else {
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
		m.actionInput.Placeholder = "Type /help for commands"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(helpStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(helpStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// WaitForAction waits for the next submitted line
func (m *TUIModel) WaitForAction() ActionResult {
	return <-m.actionResult
}

// Pending returns the outstanding move request, if any
func (m *TUIModel) Pending() *protocol.MoveRequestData {
	return m.pending
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

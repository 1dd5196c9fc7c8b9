package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lmarchand/givre/internal/engine"
	"github.com/lmarchand/givre/internal/gamestate"
	"github.com/lmarchand/givre/internal/i18n"
	"github.com/lmarchand/givre/pkg/scene"
)

const placeholderText = "Say something..."

type chatEntry struct {
	role    string
	message string
}

type turnDoneMsg struct{ err error }

type statusMsg struct{ text string }

// GameUI is the bubbletea model that renders the game.
type GameUI struct {
	eng       *engine.Engine
	manager   *gamestate.Manager
	presenter *ProgramPresenter
	i18n      *i18n.Service

	chatViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	npcName    string
	background string
	narrative  string
	hints      []scene.Hint
	chatLines  []chatEntry

	typing   bool
	overlays bool
	faded    bool
	video    string
	banner   string
	status   string

	initErr       error
	showQuitModal bool
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")). // amber
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	videoStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("208")).
			Padding(1, 4).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewGameUI(eng *engine.Engine, manager *gamestate.Manager, presenter *ProgramPresenter, i18nSvc *i18n.Service) GameUI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	return GameUI{
		eng:          eng,
		manager:      manager,
		presenter:    presenter,
		i18n:         i18nSvc,
		textarea:     ta,
		chatViewport: chatVp,
		overlays:     true,
	}
}

func (m GameUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.72) - 4
		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 12
		m.textarea.SetWidth(chatWidth - 4)
		m.ready = true
		m.writeChatContent()

	case engineReadyMsg:
		if msg.err != nil {
			m.initErr = msg.err
		}

	case backgroundMsg:
		m.background = msg.url

	case narrativeMsg:
		m.narrative = msg.text

	case npcMsg:
		m.npcName = msg.name

	case hintsMsg:
		m.hints = msg.hints

	case chatAppendMsg:
		m.chatLines = append(m.chatLines, chatEntry{role: msg.role, message: msg.message})
		m.writeChatContent()

	case chatClearMsg:
		m.chatLines = nil
		m.writeChatContent()

	case typingMsg:
		m.typing = msg.active
		m.writeChatContent()

	case overlaysMsg:
		m.overlays = msg.visible

	case fadeMsg:
		m.faded = msg.faded

	case videoMsg:
		if msg.active {
			m.video = msg.url
		} else {
			m.video = ""
		}

	case errorBannerMsg:
		m.banner = msg.message

	case turnDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		}

	case statusMsg:
		m.status = msg.text

	case tea.KeyMsg:
		if m.video != "" {
			// Any key skips the transition video.
			m.presenter.Skip()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.typing || !m.overlays {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			m.textarea.Reset()
			m.status = ""
			return m, m.sendMessage(input)
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *GameUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	for _, line := range m.chatLines {
		switch line.role {
		case engine.RoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(line.message, chatWidth-5) + "\n\n")
		default:
			name := m.npcName
			if name == "" {
				name = "???"
			}
			content.WriteString(npcStyle.Render(name+": ") + wordwrap.String(line.message, chatWidth-len(name)-2) + "\n\n")
		}
	}

	if m.typing {
		content.WriteString(typingStyle.Render("● ● ●") + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m GameUI) sendMessage(input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		return turnDoneMsg{err: m.eng.HandleUserMessage(ctx, input)}
	}
}

func (m GameUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimSpace(input))
	cmd := strings.ToLower(fields[0])
	m.textarea.Reset()

	switch cmd {
	case "/help":
		m.status = "Commands: /save /load /restart /hint N /lang CODE /copy /help"

	case "/save":
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if m.manager.Save(ctx) {
				return statusMsg{text: "Game saved."}
			}
			return statusMsg{text: errorStyle.Render("Save failed.")}
		}

	case "/load":
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()
			if !m.manager.Load(ctx) {
				return statusMsg{text: errorStyle.Render("No compatible save found.")}
			}
			if err := m.eng.LoadScene(ctx, m.manager.CurrentSceneID()); err != nil {
				return statusMsg{text: errorStyle.Render(err.Error())}
			}
			return statusMsg{text: "Game loaded."}
		}

	case "/restart":
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()
			m.manager.Reset()
			if err := m.eng.LoadScene(ctx, m.eng.StartSceneID()); err != nil {
				return statusMsg{text: errorStyle.Render(err.Error())}
			}
			return statusMsg{text: "Game restarted."}
		}

	case "/hint":
		if len(fields) < 2 {
			m.status = "Usage: /hint N"
			break
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(m.hints) {
			m.status = errorStyle.Render("No such hint.")
			break
		}
		m.textarea.SetValue(m.hints[n-1].Label)

	case "/lang":
		if len(fields) < 2 {
			m.status = "Usage: /lang CODE (e.g. /lang fr)"
			break
		}
		if err := m.i18n.SetLanguage(fields[1]); err != nil {
			m.status = errorStyle.Render("Unknown language: " + fields[1])
			break
		}
		m.status = "Language set to " + m.i18n.LanguageName() + ". Takes effect on the next scene."

	case "/copy":
		var transcript strings.Builder
		for _, line := range m.chatLines {
			speaker := m.npcName
			if line.role == engine.RoleUser {
				speaker = "You"
			}
			transcript.WriteString(speaker + ": " + line.message + "\n")
		}
		if err := clipboard.WriteAll(transcript.String()); err != nil {
			m.status = errorStyle.Render("Copy failed: " + err.Error())
		} else {
			m.status = "Transcript copied to clipboard."
		}

	default:
		m.status = errorStyle.Render("Unknown command: " + cmd)
	}

	return m, nil
}

func (m GameUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m GameUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("VAPEUR DE GIVRE") + "\n\n")

	content.WriteString("Scene:\n")
	if id := m.manager.CurrentSceneID(); id != "" {
		content.WriteString(id + "\n\n")
	} else {
		content.WriteString("(loading)\n\n")
	}

	if history := m.manager.SceneHistory(); len(history) > 0 {
		content.WriteString("Visited:\n")
		for _, id := range history {
			content.WriteString("• " + id + "\n")
		}
		content.WriteString("\n")
	}

	if len(m.hints) > 0 {
		content.WriteString("Hints:\n")
		for i, h := range m.hints {
			label := h.Label
			if h.Icon != "" {
				label = h.Icon + " " + label
			}
			content.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))
		}
		content.WriteString("\n")
	}

	content.WriteString("Language:\n")
	content.WriteString(m.i18n.LanguageName() + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /hint N: Use hint\n")
	content.WriteString("• /save, /load\n")
	content.WriteString("• /help: More\n")

	return content.String()
}

func (m GameUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.initErr != nil {
		return errorStyle.Render("\n  Failed to start: "+m.initErr.Error()) + "\n\n  Press Ctrl+C to exit.\n"
	}
	if m.video != "" {
		banner := videoStyle.Render("▶ " + m.video + "\n\n(press any key to skip)")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, banner,
			lipgloss.WithWhitespaceChars(" "))
	}
	if m.faded || !m.overlays {
		return ""
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	var top strings.Builder
	if m.background != "" {
		top.WriteString(promptStyle.Render("["+m.background+"]") + "\n")
	}
	if m.narrative != "" {
		top.WriteString(narrativeStyle.Render(wordwrap.String(m.narrative, chatWidth-6)) + "\n")
	}
	top.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))))

	statusLine := m.status
	if m.banner != "" {
		statusLine = errorStyle.Render(m.banner)
	}

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			top.String(),
			m.chatViewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))),
			m.textarea.View(),
			statusLine,
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.writeMetadata(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

func (m GameUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost. Use /save first if you want to keep it.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

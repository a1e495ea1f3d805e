package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"totpvault/internal/otpauth"
	"totpvault/internal/store"
	"totpvault/internal/totp"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	watchTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Margin(0, 0, 1, 0)

	listContainerStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("244")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Bold(true).
			Padding(0, 0, 1, 0)

	issuerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(20)
	accountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(26)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Width(10)

	countdownBaseStyle     = lipgloss.NewStyle().Width(10)
	countdownNormalStyle   = countdownBaseStyle.Foreground(lipgloss.Color("70"))
	countdownWarningStyle  = countdownBaseStyle.Foreground(lipgloss.Color("214"))
	countdownCriticalStyle = countdownBaseStyle.Foreground(lipgloss.Color("196")).Bold(true)

	watchHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	watchErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true)
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
)

type watchState int

const (
	stateViewing watchState = iota
	stateAdding
)

// watchModel drives the live code view. The store's map is not safe for
// concurrent use, so every store access happens inside Update on the event
// loop goroutine; commands returned from Update never touch the store.
type watchModel struct {
	state     watchState
	store     *store.Store
	keys      []string
	entries   map[string]store.Entry
	codes     map[string]string
	remaining int
	input     textinput.Model
	err       error
}

type tickMsg time.Time

func runWatch(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	if err := startWatch(s); err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}
	return 0
}

func startWatch(s *store.Store) error {
	ti := textinput.New()
	ti.Placeholder = "otpauth://..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	m := watchModel{
		state:     stateViewing,
		store:     s,
		remaining: totp.Period,
		input:     ti,
	}
	m.reloadEntries()
	m.codes = m.currentCodes(time.Now())
	if len(m.keys) == 0 {
		m.state = stateAdding
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *watchModel) reloadEntries() {
	m.entries = m.store.List()
	m.keys = sortedKeys(m.entries)
}

func (m watchModel) Init() tea.Cmd {
	return doTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateViewing:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "a":
				m.state = stateAdding
				m.input.Reset()
				return m, textinput.Blink
			}
		case stateAdding:
			switch msg.String() {
			case "ctrl+c", "esc":
				m.state = stateViewing
				m.err = nil
				return m, nil
			case "enter":
				return m.addAccount(m.input.Value()), nil
			}
		}

	case tickMsg:
		m.remaining = totp.Remaining(time.Time(msg))
		if m.remaining == totp.Period {
			m.codes = m.currentCodes(time.Time(msg))
		}
		cmds = append(cmds, doTick())
	}

	if m.state == stateAdding {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m watchModel) View() string {
	switch m.state {
	case stateAdding:
		prompt := promptStyle.Render("Paste an otpauth:// URI and press Enter:")
		content := lipgloss.JoinVertical(lipgloss.Left, prompt, "\n"+m.input.View(),
			"\n"+watchHelpStyle.Render("esc: cancel"))
		if m.err != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, content,
				"\n\n"+watchErrorStyle.Render("Error: "+m.err.Error()))
		}
		return docStyle.Render(listContainerStyle.Render(content))
	default:
		return docStyle.Render(m.viewCodes())
	}
}

func (m watchModel) viewCodes() string {
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		issuerStyle.Render("ISSUER"),
		accountStyle.Render("ACCOUNT"),
		codeStyle.Render("CODE"),
		countdownBaseStyle.Render("EXPIRES"),
	)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	countdown := countdownNormalStyle
	if m.remaining <= 5 {
		countdown = countdownCriticalStyle
	} else if m.remaining <= 10 {
		countdown = countdownWarningStyle
	}

	for i, key := range m.keys {
		e := m.entries[key]
		row := lipgloss.JoinHorizontal(lipgloss.Left,
			issuerStyle.Render(truncate(e.Issuer, 19)),
			accountStyle.Render(truncate(e.Account, 25)),
			codeStyle.Render(m.codes[key]),
			countdown.Render(fmt.Sprintf("%ds", m.remaining)),
		)
		b.WriteString(row)
		if i < len(m.keys)-1 {
			b.WriteString("\n")
		}
	}

	title := watchTitleStyle.Render("totpvault")
	help := watchHelpStyle.Render("a: add account  •  q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, listContainerStyle.Render(b.String()), help)
}

func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) currentCodes(now time.Time) map[string]string {
	codes := make(map[string]string, len(m.keys))
	for _, key := range m.keys {
		code, err := m.store.Code(key, now)
		if err != nil {
			codes[key] = "-"
			continue
		}
		codes[key] = code
	}
	return codes
}

// addAccount applies an enrollment on the event loop goroutine and returns
// the updated model. On failure the error is shown and the input kept.
func (m watchModel) addAccount(raw string) watchModel {
	payload, ok := otpauth.Parse(strings.TrimSpace(raw))
	if !ok {
		m.err = fmt.Errorf("not a usable otpauth://totp/ URI")
		return m
	}
	if _, err := m.store.AddFromQR(payload); err != nil {
		m.err = err
		return m
	}
	if err := m.store.Save(); err != nil {
		m.err = err
		return m
	}
	m.reloadEntries()
	m.codes = m.currentCodes(time.Now())
	m.state = stateViewing
	m.err = nil
	return m
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}

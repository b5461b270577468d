package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

type fingerItem struct {
	finger   domain.Finger
	enrolled bool
}

func (f fingerItem) Title() string { return f.finger.Label() }
func (f fingerItem) Description() string {
	if f.enrolled {
		return "Enrolled"
	}
	return "Not enrolled"
}
func (f fingerItem) FilterValue() string { return f.finger.Label() }

type clearAllItem struct{}

func (clearAllItem) Title() string       { return "Delete all users' prints" }
func (clearAllItem) Description() string { return "Remove every enrolled fingerprint on this reader" }
func (clearAllItem) FilterValue() string { return "delete all" }

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	list     list.Model
	progress progress.Model
	spinner  spinner.Model

	device   *domain.DeviceRef
	users    []domain.User
	selected *domain.User
	enrolled map[domain.Finger]bool

	loading      bool
	enrolling    bool
	busy         bool
	quitting     bool
	confirmClear bool

	stagesPassed int
	stageCount   *int
	status       string
	toast        string
}

func Run(deps Deps) error {
	if deps.Orchestrator == nil {
		return errors.New("tui: orchestrator is nil")
	}
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	if deps.Events != nil {
		deps.Events.Close()
	}
	return err
}

func newModel(deps Deps) model {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	l := list.New(nil, list.NewDefaultDelegate(), 40, 20)
	l.Title = "Fingers"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	m := model{
		theme:    DefaultTheme(),
		deps:     deps,
		log:      log,
		list:     l,
		progress: progress.New(progress.WithDefaultGradient()),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		enrolled: map[domain.Finger]bool{},
		loading:  true,
	}
	m.list.SetItems(m.items())
	m.list.Select(fingerIndex(domain.DefaultFinger()))
	return m
}

func fingerIndex(f domain.Finger) int {
	for i, c := range domain.AllFingers() {
		if c == f {
			return i
		}
	}
	return 0
}

func (m model) items() []list.Item {
	fingers := domain.AllFingers()
	out := make([]list.Item, 0, len(fingers)+1)
	for _, f := range fingers {
		out = append(out, fingerItem{finger: f, enrolled: m.enrolled[f]})
	}
	return append(out, clearAllItem{})
}

func (m model) listen() tea.Cmd {
	if m.deps.Events == nil {
		return nil
	}
	return listenEvents(m.deps.Events)
}

func (m model) idle() bool {
	return !m.enrolling && !m.busy && !m.loading
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.listen(), cmdBootstrap(m.deps.Orchestrator), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-14)
		m.progress.Width = min(msg.Width-8, 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		var cmd tea.Cmd
		m, cmd = m.apply(msg.ev)
		return m, tea.Batch(m.listen(), cmd)

	case sinkClosedMsg:
		return m, nil

	case bootstrapDoneMsg:
		m.loading = false
		return m, nil

	case enrollDoneMsg:
		m.enrolling = false
		m.log.Info("tui.enroll.done", "outcome", string(msg.outcome))
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Debug("tui.op.failed", "op", msg.op, "err", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	o := m.deps.Orchestrator

	if m.confirmClear {
		switch msg.String() {
		case "y", "Y":
			m.confirmClear = false
			m.busy = true
			m.toast = ""
			m.status = "Deleting all users' fingerprints…"
			return m, cmdClearAll(o)
		case "n", "N", "esc":
			m.confirmClear = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.enrolling {
			m.quitting = true
			o.CancelEnrollment()
			m.status = "Cancelling…"
			return m, nil
		}
		return m, tea.Quit

	case "c", "esc":
		if m.enrolling && o.CancelEnrollment() {
			m.status = "Cancelling…"
		}
		return m, nil

	case "enter":
		if !m.idle() {
			return m, nil
		}
		switch it := m.list.SelectedItem().(type) {
		case fingerItem:
			m.enrolling = true
			m.toast = ""
			m.stagesPassed = 0
			m.stageCount = nil
			m.status = domain.EnrollStartingMessage
			return m, tea.Batch(cmdEnroll(o, it.finger), m.spinner.Tick)
		case clearAllItem:
			m.confirmClear = true
		}
		return m, nil

	case "d":
		it, ok := m.list.SelectedItem().(fingerItem)
		if !ok || !it.enrolled || !m.idle() {
			return m, nil
		}
		m.busy = true
		m.toast = ""
		return m, cmdDelete(o, it.finger)

	case "D":
		if m.selected == nil || !m.idle() {
			return m, nil
		}
		m.busy = true
		m.toast = ""
		return m, cmdDelete(o, domain.FingerAll)

	case "u":
		if !m.idle() {
			return m, nil
		}
		name, ok := nextUser(m.users, m.selected)
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, cmdSelectUser(o, name)

	case "R":
		if !m.idle() {
			return m, nil
		}
		m.loading = true
		m.toast = ""
		return m, cmdBootstrap(o)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) apply(ev domain.Event) (model, tea.Cmd) {
	switch e := ev.(type) {
	case domain.DeviceFound:
		ref := e.Ref
		m.device = &ref

	case domain.DeviceNotFound:
		m.device = nil
		m.toast = userMessage(e.Err)

	case domain.UsersFound:
		m.users = e.Users
		m.selected = e.Selected
		m.enrolled = map[domain.Finger]bool{}

	case domain.UserSelected:
		u := e.User
		m.selected = &u
		m.enrolled = map[domain.Finger]bool{}

	case domain.EnrolledFingers:
		if m.selected == nil || m.selected.Username != e.Username {
			return m, nil
		}
		set := make(map[domain.Finger]bool, len(e.Fingers))
		for _, f := range e.Fingers {
			set[f] = true
		}
		m.enrolled = set

	case domain.EnrollStarted:
		m.enrolling = true
		m.stagesPassed = 0
		m.stageCount = e.StageCount
		m.status = domain.EnrollStartingMessage

	case domain.EnrollProgress:
		m.stagesPassed = e.StagesPassed
		m.stageCount = e.StageCount
		m.status = e.Message

	case domain.EnrollTerminal:
		m.enrolling = false
		m.stagesPassed = e.StagesPassed
		m.status = e.Message

	case domain.DeleteComplete:
		if e.Finger == domain.FingerAll {
			m.status = "Deleted all fingerprints for " + e.Username
		} else {
			m.status = "Deleted " + e.Finger.Label()
		}

	case domain.ClearComplete:
		if e.Err != nil {
			m.toast = userMessage(e.Err)
		}
		m.status = fmt.Sprintf("Cleared fingerprints of %d user(s)", len(e.Usernames))

	case domain.OperationError:
		m.toast = userMessage(e.Err)
		m.log.Warn("tui.operation.error", "kind", string(e.Err.Kind), "err", e.Err)
	}

	return m, m.list.SetItems(m.items())
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)

	device := "No fingerprint reader"
	if m.device != nil {
		device = "Reader: " + m.device.Path
	}
	header := m.theme.Title.Render("Fingerprint enrollment") + "\n" +
		m.theme.Subtitle.Render(device) + "\n" +
		m.theme.Subtitle.Render("User: "+clampString(userLabel(m.selected), 60)) + "\n"

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.theme.Card.Render(m.list.View()))
	b.WriteString("\n")

	switch {
	case m.enrolling:
		b.WriteString(m.spinner.View() + " " + m.theme.Status.Render(m.status) + "\n")
		b.WriteString(m.progress.ViewAs(progressRatio(m.stagesPassed, m.stageCount)) + "\n")
		b.WriteString(m.theme.Help.Render(stageText(m.stagesPassed, m.stageCount)) + "\n")
	case m.loading || m.busy:
		b.WriteString(m.spinner.View() + " " + m.theme.Status.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(m.theme.Status.Render(m.status) + "\n")
	}

	if m.toast != "" {
		b.WriteString(m.theme.Error.Render(m.toast) + "\n")
	}

	if m.confirmClear {
		b.WriteString(m.theme.Error.Render("Delete ALL fingerprints of ALL users? y/n") + "\n")
	}

	help := "↑/↓ select • enter enroll • d delete • D delete all (user) • u switch user • R refresh • q quit"
	if m.enrolling {
		help = "c/esc cancel • q cancel and quit"
	}
	b.WriteString(m.theme.Help.Render(help))

	return wrap.Render(b.String())
}

package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// safeModel keeps a panic in Update or View from tearing down the terminal
// while the reader may still be claimed.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) report(where string, r any) {
	s.log.Error("panic.recovered",
		"where", where,
		"panic", fmt.Sprint(r),
		"enrolling", s.m.enrolling,
		"stack", string(debug.Stack()),
	)
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.report("tui.update", r)

		s.m.confirmClear = false
		s.m.toast = panicToast

		var cmds []tea.Cmd
		if s.m.enrolling && s.m.deps.Orchestrator != nil {
			s.m.deps.Orchestrator.CancelEnrollment()
		}
		if _, ok := msg.(eventMsg); ok {
			cmds = append(cmds, s.m.listen())
		}
		tm, cmd = s, tea.Batch(cmds...)
	}()

	inner, c := s.m.Update(msg)
	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.report("tui.view", r)
			out = panicToast
		}
	}()
	return s.m.View()
}

var _ tea.Model = (*safeModel)(nil)

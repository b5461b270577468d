package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

func listenEvents(s *EventSink) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-s.ch:
			return eventMsg{ev: ev}
		case <-s.done:
			return sinkClosedMsg{}
		}
	}
}

func cmdBootstrap(o Orchestrator) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		_ = o.Discover(ctx)
		o.RefreshUsers(ctx)
		_ = o.RefreshFingers(ctx)
		return bootstrapDoneMsg{}
	}
}

func cmdSelectUser(o Orchestrator, username string) tea.Cmd {
	return func() tea.Msg {
		err := o.SelectUser(context.Background(), username)
		return opDoneMsg{op: "select", err: err}
	}
}

func cmdEnroll(o Orchestrator, finger domain.Finger) tea.Cmd {
	return func() tea.Msg {
		return enrollDoneMsg{outcome: o.Enroll(context.Background(), finger)}
	}
}

func cmdDelete(o Orchestrator, finger domain.Finger) tea.Cmd {
	return func() tea.Msg {
		err := o.Delete(context.Background(), finger)
		return opDoneMsg{op: "delete", err: err}
	}
}

func cmdClearAll(o Orchestrator) tea.Cmd {
	return func() tea.Msg {
		err := o.ClearAllUsers(context.Background())
		return opDoneMsg{op: "clear", err: err}
	}
}

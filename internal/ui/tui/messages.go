package tui

import "github.com/jotuel/cosmic-fprint/internal/domain"

type eventMsg struct {
	ev domain.Event
}

type sinkClosedMsg struct{}

type bootstrapDoneMsg struct{}

type enrollDoneMsg struct {
	outcome domain.EnrollOutcome
}

type opDoneMsg struct {
	op  string
	err error
}

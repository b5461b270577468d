package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// progressRatio is the filled share of the progress bar, 0 when the stage
// count is unknown.
func progressRatio(passed int, total *int) float64 {
	if total == nil || *total <= 0 {
		return 0
	}
	r := float64(passed) / float64(*total)
	if r > 1 {
		return 1
	}
	return r
}

func stageText(passed int, total *int) string {
	if total == nil {
		return fmt.Sprintf("%d stage(s) passed", passed)
	}
	return fmt.Sprintf("Stage %d of %d", passed, *total)
}

// nextUser returns the username after current in users, wrapping around.
func nextUser(users []domain.User, current *domain.User) (string, bool) {
	if len(users) == 0 {
		return "", false
	}
	if current == nil {
		return users[0].Username, true
	}
	for i, u := range users {
		if u.Username == current.Username {
			return users[(i+1)%len(users)].Username, true
		}
	}
	return users[0].Username, true
}

func userLabel(u *domain.User) string {
	if u == nil {
		return "(no user)"
	}
	return u.String()
}

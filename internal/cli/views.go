package cli

import (
	"github.com/jotuel/cosmic-fprint/internal/domain"
)

type userView struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Selected    bool   `json:"selected"`
}

type fingerView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type fingersView struct {
	User    string       `json:"user"`
	Fingers []fingerView `json:"fingers"`
}

type enrollView struct {
	User         string `json:"user"`
	Finger       string `json:"finger"`
	Outcome      string `json:"outcome"`
	Message      string `json:"message"`
	StagesPassed int    `json:"stages_passed"`
	StageCount   *int   `json:"stage_count,omitempty"`
}

type deleteView struct {
	User   string `json:"user"`
	Finger string `json:"finger"`
}

type clearView struct {
	Users []string `json:"users"`
	Error string   `json:"error,omitempty"`
}

func toUserViews(users []domain.User, selected *domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Selected:    selected != nil && selected.Username == u.Username,
		})
	}
	return out
}

func toFingerViews(fingers []domain.Finger) []fingerView {
	out := make([]fingerView, 0, len(fingers))
	for _, f := range fingers {
		out = append(out, fingerView{Name: string(f), Label: f.Label()})
	}
	return out
}

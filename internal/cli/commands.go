package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jotuel/cosmic-fprint/internal/buildinfo"
	"github.com/jotuel/cosmic-fprint/internal/domain"
)

// prepare discovers the device, loads users and applies an explicit user choice.
func prepare(ctx context.Context, s *session, user string) (domain.User, error) {
	if err := s.orch.Discover(ctx); err != nil {
		return domain.User{}, err
	}
	s.orch.RefreshUsers(ctx)

	if user != "" {
		if err := s.orch.SelectUser(ctx, user); err != nil {
			return domain.User{}, err
		}
	}
	sel, ok := s.orch.Selected()
	if !ok {
		return domain.User{}, errors.New("no user available")
	}
	return sel, nil
}

func deviceCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Show the default fingerprint reader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(g, nil)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			if err := s.orch.Discover(ctx); err != nil {
				return err
			}
			info, err := s.orch.DescribeDevice(ctx)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), g, info, func(w io.Writer) {
				fmt.Fprintf(w, "Device:    %s\n", info.Path)
				if info.ScanType != "" {
					fmt.Fprintf(w, "Scan type: %s\n", info.ScanType)
				}
				if info.StageCount != nil {
					fmt.Fprintf(w, "Stages:    %d\n", *info.StageCount)
				} else {
					fmt.Fprintf(w, "Stages:    unknown\n")
				}
				if len(info.Readers) > 1 {
					fmt.Fprintf(w, "Readers:   %s\n", strings.Join(info.Readers, ", "))
				}
			})
		},
	}
}

func usersCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List system users that can own fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(g, nil)
			if err != nil {
				return err
			}
			defer s.close()

			users := s.orch.RefreshUsers(cmd.Context())
			var selected *domain.User
			if u, ok := s.orch.Selected(); ok {
				selected = &u
			}
			views := toUserViews(users, selected)

			return render(cmd.OutOrStdout(), g, views, func(w io.Writer) {
				if len(views) == 0 {
					fmt.Fprintln(w, "(no users found)")
					return
				}
				for i, u := range users {
					mark := " "
					if views[i].Selected {
						mark = "*"
					}
					fmt.Fprintf(w, "%s %s\n", mark, u.String())
				}
			})
		},
	}
}

func fingersCmd(g *globalOptions) *cobra.Command {
	var user string

	c := &cobra.Command{
		Use:   "fingers",
		Short: "List enrolled fingers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			col := &collector{}
			s, err := openSession(g, col)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			sel, err := prepare(ctx, s, user)
			if err != nil {
				return err
			}
			if user == "" {
				if err := s.orch.RefreshFingers(ctx); err != nil {
					return err
				}
			}

			ef, ok := col.lastFingers()
			if !ok {
				return errors.New("enrolled fingers not reported")
			}
			view := fingersView{User: sel.Username, Fingers: toFingerViews(ef.Fingers)}

			return render(cmd.OutOrStdout(), g, view, func(w io.Writer) {
				fmt.Fprintf(w, "User: %s\n\n", sel.String())
				if len(view.Fingers) == 0 {
					fmt.Fprintln(w, "(no fingerprints enrolled)")
					return
				}
				for _, f := range view.Fingers {
					fmt.Fprintf(w, "- %s  (%s)\n", f.Label, f.Name)
				}
			})
		},
	}

	c.Flags().StringVarP(&user, "user", "u", "", "Username (defaults to the configured or first listed user)")
	return c
}

func enrollCmd(g *globalOptions) *cobra.Command {
	var user string

	c := &cobra.Command{
		Use:   "enroll [FINGER]",
		Short: "Enroll a finger (Ctrl-C cancels)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finger := domain.DefaultFinger()
			if len(args) == 1 {
				f, err := domain.ParseFinger(args[0])
				if err != nil {
					return err
				}
				if !f.IsEnrollable() {
					return fmt.Errorf("cannot enroll %q", f)
				}
				finger = f
			}

			out := cmd.OutOrStdout()
			col := &collector{}
			if g.format != "json" {
				col.live = func(ev domain.Event) { printEnrollEvent(out, ev) }
			}

			s, err := openSession(g, col)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sel, err := prepare(ctx, s, user)
			if err != nil {
				return err
			}

			outcome := s.orch.Enroll(ctx, finger)

			view := enrollView{User: sel.Username, Finger: string(finger), Outcome: string(outcome)}
			col.mu.Lock()
			if col.started != nil {
				view.StageCount = col.started.StageCount
			}
			if col.term != nil {
				view.Message = col.term.Message
				view.StagesPassed = col.term.StagesPassed
			}
			col.mu.Unlock()

			if g.format == "json" {
				if err := render(out, g, view, nil); err != nil {
					return err
				}
			}

			if outcome == domain.OutcomeCompleted {
				return nil
			}
			if se := col.lastError(); se != nil {
				return se
			}
			return fmt.Errorf("enrollment %s", outcome)
		},
	}

	c.Flags().StringVarP(&user, "user", "u", "", "Username (defaults to the configured or first listed user)")
	return c
}

func printEnrollEvent(w io.Writer, ev domain.Event) {
	switch e := ev.(type) {
	case domain.EnrollStarted:
		fmt.Fprintf(w, "Enrolling %s for %s. %s\n", e.Finger.Label(), e.Username, domain.EnrollStartingMessage)
	case domain.EnrollProgress:
		fmt.Fprintf(w, "%s %s\n", stageCounter(e.StagesPassed, e.StageCount), e.Message)
	case domain.EnrollTerminal:
		fmt.Fprintf(w, "%s\n", e.Message)
	case domain.OperationError:
		fmt.Fprintf(w, "error: %s\n", e.Err.Message())
	}
}

func stageCounter(passed int, total *int) string {
	if total == nil {
		return fmt.Sprintf("[%d]", passed)
	}
	return fmt.Sprintf("[%d/%d]", passed, *total)
}

func deleteCmd(g *globalOptions) *cobra.Command {
	var user string

	c := &cobra.Command{
		Use:   "delete FINGER|all",
		Short: "Delete one enrolled finger, or all of a user's fingers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finger, err := domain.ParseFinger(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(g, nil)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			sel, err := prepare(ctx, s, user)
			if err != nil {
				return err
			}
			if err := s.orch.Delete(ctx, finger); err != nil {
				return err
			}

			view := deleteView{User: sel.Username, Finger: string(finger)}
			return render(cmd.OutOrStdout(), g, view, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s for %s\n", finger.Label(), sel.String())
			})
		},
	}

	c.Flags().StringVarP(&user, "user", "u", "", "Username (defaults to the configured or first listed user)")
	return c
}

func clearAllCmd(g *globalOptions) *cobra.Command {
	var yes bool

	c := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every enrolled fingerprint of every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete all users' fingerprints without --yes")
			}

			s, err := openSession(g, nil)
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			if err := s.orch.Discover(ctx); err != nil {
				return err
			}
			users := s.orch.RefreshUsers(ctx)

			clearErr := s.orch.ClearAllUsers(ctx)
			view := clearView{Users: make([]string, 0, len(users))}
			for _, u := range users {
				view.Users = append(view.Users, u.Username)
			}
			if clearErr != nil {
				view.Error = clearErr.Error()
			}

			if err := render(cmd.OutOrStdout(), g, view, func(w io.Writer) {
				fmt.Fprintf(w, "Cleared fingerprints for %d user(s)\n", len(view.Users))
				if clearErr != nil {
					fmt.Fprintf(w, "last error: %s\n", view.Error)
				}
			}); err != nil {
				return err
			}
			return clearErr
		},
	}

	c.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting all fingerprints")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

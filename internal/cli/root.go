package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jotuel/cosmic-fprint/internal/infra/logger"
	"github.com/jotuel/cosmic-fprint/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "cosmic-fprint",
		Short:        "Manage fingerprint enrollment through fprintd",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			events := tui.NewEventSink()

			s, err := openSession(g, events)
			if err != nil {
				return err
			}
			defer s.close()

			return tui.Run(tui.Deps{
				Orchestrator: s.orch,
				Events:       events,
				Logger:       logger.L(),
				Debug:        g.debug,
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&g.debug, "debug", false, "enable verbose logging to $XDG_STATE_HOME/cosmic-fprint/logs/cosmic-fprint.log")
	pf.StringVar(&g.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cosmic-fprint/config.yaml)")
	pf.StringVar(&g.format, "format", "pretty", "Output format: pretty|json")
	pf.StringVar(&g.query, "query", "", "JSONPath applied to --format json output")

	cmd.AddCommand(
		deviceCmd(g),
		usersCmd(g),
		fingersCmd(g),
		enrollCmd(g),
		deleteCmd(g),
		clearAllCmd(g),
		versionCmd(),
	)
	return cmd
}

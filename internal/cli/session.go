package cli

import (
	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/infra/accountsbus"
	"github.com/jotuel/cosmic-fprint/internal/infra/busconn"
	"github.com/jotuel/cosmic-fprint/internal/infra/config"
	"github.com/jotuel/cosmic-fprint/internal/infra/fprintbus"
	"github.com/jotuel/cosmic-fprint/internal/infra/logger"
	"github.com/jotuel/cosmic-fprint/internal/infra/sysuser"
	"github.com/jotuel/cosmic-fprint/internal/ports"
	"github.com/jotuel/cosmic-fprint/internal/usecase"
)

type globalOptions struct {
	debug      bool
	configPath string
	format     string
	query      string
}

// session bundles a wired orchestrator with the resources it holds open.
type session struct {
	cfg   domain.Config
	orch  *usecase.Orchestrator
	close func()
}

// openSession is replaced in tests.
var openSession = openBusSession

func openBusSession(g *globalOptions, sink ports.EventSink) (*session, error) {
	cfg, err := config.NewLoader().Load(g.configPath)
	if err != nil {
		return nil, err
	}

	cleanupLog, _ := logger.Setup(logger.Config{Debug: g.debug || cfg.Log.Debug})
	closeLog := func() {
		if cleanupLog != nil {
			_ = cleanupLog()
		}
	}
	log := logger.L()

	conn, err := busconn.Connect(cfg.Bus)
	if err != nil {
		log.Error("bus.connect.failed", "bus", string(cfg.Bus), "err", err)
		closeLog()
		return nil, err
	}
	log.Info("bus.connected", "bus", string(cfg.Bus))

	orch := usecase.NewOrchestrator(
		fprintbus.NewManager(conn, log),
		accountsbus.NewDirectory(conn),
		sysuser.New(),
		sink,
		usecase.WithLogger(log),
		usecase.WithUserLookupLimit(cfg.Lookup.Concurrency),
		usecase.WithPreferredUser(cfg.Defaults.User),
	)

	return &session{
		cfg:  cfg,
		orch: orch,
		close: func() {
			_ = conn.Close()
			closeLog()
		},
	}, nil
}

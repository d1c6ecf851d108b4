package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/shift-router/internal/adapter/memory"
	pgdb "github.com/alanyang/shift-router/internal/adapter/postgres"
	pgavail "github.com/alanyang/shift-router/internal/adapter/postgres/availability"
	pgeventbus "github.com/alanyang/shift-router/internal/adapter/postgres/eventbus"
	pgledger "github.com/alanyang/shift-router/internal/adapter/postgres/ledger"
	pglocker "github.com/alanyang/shift-router/internal/adapter/postgres/locker"
	pgoperator "github.com/alanyang/shift-router/internal/adapter/postgres/operator"
	pgoutcome "github.com/alanyang/shift-router/internal/adapter/postgres/outcome"
	pgrunstate "github.com/alanyang/shift-router/internal/adapter/postgres/runstate"
	promadapter "github.com/alanyang/shift-router/internal/adapter/prometheus"
	"github.com/alanyang/shift-router/internal/adapter/pyrus"
	"github.com/alanyang/shift-router/internal/clock"
	"github.com/alanyang/shift-router/internal/config"
	portavail "github.com/alanyang/shift-router/internal/port/availability"
	porteventbus "github.com/alanyang/shift-router/internal/port/eventbus"
	portledger "github.com/alanyang/shift-router/internal/port/ledger"
	portlocker "github.com/alanyang/shift-router/internal/port/locker"
	portoperator "github.com/alanyang/shift-router/internal/port/operator"
	portoutcome "github.com/alanyang/shift-router/internal/port/outcome"
	portrunstate "github.com/alanyang/shift-router/internal/port/runstate"
	porttasksource "github.com/alanyang/shift-router/internal/port/tasksource"

	availsvc "github.com/alanyang/shift-router/internal/service/availability"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
	distsvc "github.com/alanyang/shift-router/internal/service/distributor"
	"github.com/alanyang/shift-router/internal/service/eligibility"
	operatorsvc "github.com/alanyang/shift-router/internal/service/operator"
	"github.com/alanyang/shift-router/internal/service/source"

	"github.com/alanyang/shift-router/internal/transport"
	mcptransport "github.com/alanyang/shift-router/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool       *pgxpool.Pool // nil when running on in-memory storage
	Server     *http.Server
	ControlSvc *controllersvc.Service

	// DriverDone is closed once the periodic driver has returned after ctx is cancelled.
	DriverDone <-chan struct{}

	closeBus func()
}

// Close releases the event bus subscriptions and then the pool.
func (a *App) Close() {
	if a.closeBus != nil {
		a.closeBus()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

type stores struct {
	operators    portoperator.Repository
	availability portavail.Repository
	ledger       portledger.Ledger
	runState     portrunstate.Store
	outcomes     portoutcome.Log
	locker       portlocker.AdvisoryLocker
	bus          porteventbus.EventBus
	closeBus     func()
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	pol, err := cfg.PolicyValue()
	if err != nil {
		return nil, fmt.Errorf("building policy: %w", err)
	}
	clk := clock.System(pol.Timezone)

	// ── Storage ──────────────────────────────────────────────────────────────
	var (
		pool *pgxpool.Pool
		st   stores
	)
	if cfg.DatabaseURL != "" {
		pool, err = pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pgdb.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		st = postgresStores(pool)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory storage; state is lost on restart")
		st = memoryStores()
	}

	// ── Task source ──────────────────────────────────────────────────────────
	metrics := promadapter.NewRecorder("shift_router")
	var src porttasksource.Source = pyrus.NewClient(pyrusConfig(cfg.Pyrus, pol.CallTimeout))
	src = source.NewResilient(src, pol.CallTimeout, metrics)

	// ── Services ─────────────────────────────────────────────────────────────
	calc := eligibility.NewCalculator(st.operators, st.availability, st.ledger, pol)
	dist := distsvc.NewService(st.runState, calc, src, st.ledger, clk, pol)
	controlSvc := controllersvc.NewService(st.runState, dist, calc, st.outcomes, st.locker, st.bus, metrics, clk, pol)
	availSvc := availsvc.NewService(st.availability, st.operators, st.bus, clk)
	operatorSvc := operatorsvc.NewService(st.operators, st.bus)

	if len(cfg.Operators) > 0 {
		seeds := make([]operatorsvc.Seed, 0, len(cfg.Operators))
		for _, o := range cfg.Operators {
			seeds = append(seeds, operatorsvc.Seed{Name: o.Name, Email: o.Email})
		}
		if _, err := operatorSvc.Seed(ctx, seeds); err != nil {
			st.closeBus()
			if pool != nil {
				pool.Close()
			}
			return nil, fmt.Errorf("seeding operators: %w", err)
		}
	}

	mcpServer := mcptransport.New(controlSvc, availSvc)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(
		ctx,
		controlSvc,
		availSvc,
		operatorSvc,
		mcpServer.Handler(),
		metrics.Handler(),
		st.bus,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	slog.Info("application wired",
		"port", cfg.Port,
		"storage", storageName(pool),
		"timezone", pol.Timezone.String(),
		"daily_quota", pol.DailyQuota,
		"cadence", pol.Cadence,
	)

	app := &App{
		Pool:       pool,
		Server:     server,
		ControlSvc: controlSvc,
		closeBus:   st.closeBus,
	}

	// ── Background loops ─────────────────────────────────────────────────────
	app.DriverDone = startDriver(ctx, controlSvc, pol.Cadence)
	startJanitor(ctx, controlSvc, cfg.JanitorInterval)

	return app, nil
}

func postgresStores(pool *pgxpool.Pool) stores {
	bus := pgeventbus.New(pool)
	return stores{
		operators:    pgoperator.New(pool),
		availability: pgavail.New(pool),
		ledger:       pgledger.New(pool),
		runState:     pgrunstate.New(pool),
		outcomes:     pgoutcome.New(pool),
		locker:       pglocker.New(pool),
		bus:          bus,
		closeBus:     bus.Close,
	}
}

func memoryStores() stores {
	return stores{
		operators:    memory.NewOperatorRepository(),
		availability: memory.NewAvailabilityRepository(),
		ledger:       memory.NewLedger(),
		runState:     memory.NewRunStateStore(),
		outcomes:     memory.NewOutcomeLog(),
		locker:       memory.NewLocker(),
		bus:          memory.NewEventBus(),
		closeBus:     func() {},
	}
}

func pyrusConfig(pc config.PyrusConfig, callTimeout time.Duration) pyrus.Config {
	cfg := pyrus.DefaultConfig()
	cfg.BaseURL = pc.BaseURL
	cfg.AuthURL = pc.AuthURL
	cfg.Login = pc.Login
	cfg.SecurityKey = pc.SecurityKey
	cfg.AccessToken = pc.AccessToken
	cfg.FormID = pc.FormID
	cfg.Step = pc.Step
	cfg.OwnerFieldID = pc.OwnerFieldID
	cfg.OwnerFieldName = pc.OwnerFieldName
	cfg.NestedPath = pc.NestedPath
	// The resilient wrapper bounds each call; the HTTP client only backstops it.
	cfg.Timeout = 2 * callTimeout
	return cfg
}

func storageName(pool *pgxpool.Pool) string {
	if pool == nil {
		return "memory"
	}
	return "postgres"
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tickworld/server/internal/config"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/persist"
	"github.com/tickworld/server/internal/scripting"
	"github.com/tickworld/server/internal/sim"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cli.Command{
		Name:  "tickworld",
		Usage: "Deterministic tick-driven entity simulation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config/server.toml",
				Usage:   "path to the TOML config file",
				Sources: cli.EnvVars("TICKWORLD_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			migrateCommand(),
			archiveCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, c.String("config"), 0, true)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the simulation loop",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "ticks", Usage: "stop after this many ticks (overrides simulation.max_ticks)"},
			&cli.BoolFlag{Name: "demo", Value: true, Usage: "seed a small demo scene"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, c.String("config"), int(c.Int("ticks")), c.Bool("demo"))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply archive schema migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "status", Usage: "print migration status instead of applying"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, log, err := bootstrap(c.String("config"))
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := persist.NewDB(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer db.Close()

			if c.Bool("status") {
				return persist.MigrationStatus(ctx, db.Pool)
			}
			if err := persist.RunMigrations(ctx, db.Pool); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func archiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Inspect persisted entity archives",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the archived blob of one entity",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "entity", Required: true, Usage: "entity id"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withArchive(ctx, c.String("config"), func(repo *persist.ArchiveRepo) error {
						b, err := repo.Load(ctx, ecs.EntityID(c.Int("entity")))
						if err != nil {
							return err
						}
						payload, digest, err := persist.EncodeBlob(b)
						if err != nil {
							return err
						}
						fmt.Printf("entity %d archived %s\nkinds %v\ndigest %s\n%s\n",
							b.EntityID, b.ArchivedAt.Format(time.RFC3339), b.Kinds(), digest, payload)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List the most recently archived entities",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withArchive(ctx, c.String("config"), func(repo *persist.ArchiveRepo) error {
						rows, err := repo.Recent(ctx, int(c.Int("limit")))
						if err != nil {
							return err
						}
						for _, r := range rows {
							fmt.Printf("%-8d %s  %v\n", r.EntityID, r.ArchivedAt.Format(time.RFC3339), r.Kinds)
						}
						return nil
					})
				},
			},
		},
	}
}

func withArchive(ctx context.Context, cfgPath string, fn func(*persist.ArchiveRepo) error) error {
	cfg, log, err := bootstrap(cfgPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	return fn(persist.NewArchiveRepo(db))
}

func bootstrap(cfgPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func runServer(ctx context.Context, cfgPath string, ticks int, demo bool) error {
	// 1. Config and logger
	cfg, log, err := bootstrap(cfgPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	maxTicks := cfg.Simulation.MaxTicks
	if ticks > 0 {
		maxTicks = uint64(ticks)
	}

	// 2. Catalogs
	catalog, err := data.LoadCatalog(cfg.Data.Actions, cfg.Data.Traits, cfg.Data.Baselines)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded",
		zap.Int("actions", catalog.Actions.Count()),
		zap.Int("traits", catalog.Traits.Count()),
		zap.Int("baselines", catalog.Baselines.Count()),
	)

	opts := sim.Options{
		Catalog:      catalog,
		TickRate:     cfg.Simulation.TickRate,
		WriteTimeout: cfg.Database.WriteTimeout,
		Log:          log,
	}

	// 3. Lua rules
	if cfg.Scripting.Enabled {
		luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer luaEngine.Close()
		opts.Scripts = luaEngine
		log.Info("lua rules loaded",
			zap.Bool("can_target", luaEngine.HasFunction("can_target")),
			zap.Bool("calc_prominence", luaEngine.HasFunction("calc_prominence")),
		)
	}

	// 4. Archive database
	if cfg.Database.Enabled {
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		opts.Sink = persist.NewArchiveRepo(db)
		log.Info("archive persistence enabled")
	}

	// 5. Engine
	eng, err := sim.New(opts)
	if err != nil {
		return err
	}
	if demo {
		if err := seedDemo(eng); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}
	eng.Settle()
	log.Info("pipeline ready", zap.Strings("systems", eng.Pipeline()))

	// 6. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	log.Info("simulation started",
		zap.String("server", cfg.Server.Name),
		zap.Duration("tick_rate", cfg.Simulation.TickRate),
		zap.Uint64("max_ticks", maxTicks),
	)

	for {
		select {
		case <-ticker.C:
			t := eng.RunTick()
			for _, e := range eng.Observations() {
				log.Debug("resolved",
					zap.Uint64("tick", t.Number),
					zap.Uint64("event", e.ID),
					zap.Stringer("kind", e.Kind),
					zap.Uint64("owner", uint64(e.Owner)),
					zap.Uint64("target", uint64(e.Target)),
					zap.Int32("amount", e.Amount),
				)
			}
			if maxTicks > 0 && t.Number >= maxTicks {
				log.Info("tick limit reached",
					zap.Uint64("ticks", t.Number),
					zap.Int("entities", eng.World().Pool().Len()),
				)
				eng.Flush()
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			eng.Flush()
			log.Info("simulation stopped", zap.Uint64("ticks", eng.Ticks()))
			return nil
		case <-ctx.Done():
			eng.Flush()
			return ctx.Err()
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

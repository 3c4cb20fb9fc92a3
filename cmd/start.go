package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"kf2-manager/core/clock"
	"kf2-manager/core/database"
	"kf2-manager/core/loader"
	"kf2-manager/core/logger"
	"kf2-manager/core/middleware/auth"
	"kf2-manager/core/middleware/rayid"
	"kf2-manager/core/process"
	"kf2-manager/core/storage"
	"kf2-manager/feature/approved"
	"kf2-manager/feature/cache"
	"kf2-manager/feature/catalog"
	"kf2-manager/feature/history"
	"kf2-manager/feature/kf2"
	"kf2-manager/feature/mapcycle"
	"kf2-manager/feature/status"
	"kf2-manager/feature/summary"
	"kf2-manager/feature/supervisor"
	"kf2-manager/feature/workshop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "kf2-manager/docs/swagger"
)

// @title KF2 Manager API
// @version 1.0
// @description Status API of the Killing Floor 2 server manager.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the server supervisor",
	Long: `Runs the supervisor loop: sync the approved workshop items, warm up the
server, rebuild map summaries and the map cycle, then keep SteamCMD and the
server running until the daily restart. Also serves the status API when
server.enabled is set.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	logg := e.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := newApprovedSource(ctx, e)
	if err != nil {
		return err
	}

	// History is optional; the supervisor runs without it.
	var recorder history.Recorder = history.Nop{}
	var historyReader status.HistoryReader
	if e.cfg.Database.Enabled {
		if db, err := database.Connect(e.cfg.Database); err != nil {
			logg.Warn("Optional history database connection failed", zap.Error(err))
		} else {
			store := history.NewStore(db)
			if err := store.Migrate(); err != nil {
				logg.Warn("History disabled", zap.Error(err))
			} else {
				recorder = store
				historyReader = store
				logg.Info("Recording cycle history", zap.String("driver", e.cfg.Database.Driver))
			}
		}
	}

	files := catalog.NewFileCatalog(logg)
	ws := workshop.NewService(e.layout.EngineINI(), logg)
	cycles := mapcycle.NewService(files, e.layout, logg)

	sup := supervisor.New(e.cfg.Supervisor, supervisor.Options{
		Approved:      source,
		Workshop:      ws,
		Summaries:     summary.NewService(files, e.layout, logg),
		MapCycle:      cycles,
		Cache:         cache.NewReconciler(logg),
		Launcher:      process.NewExecLauncher(logg),
		Agent:         kf2.SteamVariant(e.cfg.Steam).ProcessSpec(),
		Server:        kf2.ServerVariant(e.cfg.KF2).ProcessSpec(),
		CacheDir:      e.layout.CacheDir(),
		MapCycleIndex: e.cfg.KF2.MapCycleIndex,
		Clock:         clock.Real(),
		History:       recorder,
		Logger:        logg,
	})

	if e.cfg.Server.Enabled {
		app := newStatusApp(e, status.NewService(sup, ws, cycles, historyReader, logg))
		go func() {
			logg.Info("Starting status server", zap.String("addr", e.cfg.Server.Addr()))
			if err := app.Listen(e.cfg.Server.Addr()); err != nil {
				logg.Error("Status server stopped", zap.Error(err))
			}
		}()
		defer func() {
			logg.Info("Shutting down status server...")
			_ = app.Shutdown()
		}()
	}

	logg.Info("Supervisor starting",
		zap.String("install_dir", e.cfg.KF2.InstallDir),
		zap.Int("restart_hour", e.cfg.Supervisor.RestartHour),
	)
	err = sup.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logg.Info("Supervisor stopped")
		return nil
	}
	return err
}

func newApprovedSource(ctx context.Context, e *env) (approved.Source, error) {
	var client storage.Client
	if e.cfg.Approved.Source == approved.SourceStorage {
		c, err := storage.NewClient(e.cfg.Storage)
		if err != nil {
			return nil, err
		}
		exists, err := c.BucketExists(ctx, e.cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		if !exists {
			e.logger.Warn("Approved list bucket does not exist", zap.String("bucket", e.cfg.Storage.Bucket))
		}
		client = c
	}
	return approved.New(e.cfg.Approved, client, e.cfg.Storage.Bucket)
}

func newStatusApp(e *env, svc *status.Service) *fiber.App {
	logg := e.logger
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(status.NewFeature(svc))
	if err := mgr.LoadAll(app); err != nil {
		logg.Error("Failed to load features", zap.Error(err))
	}
	return app
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/config"
	"github.com/emreacar/kafepos/internal/domain/models"
	"github.com/emreacar/kafepos/internal/repository/mongodb"
	"github.com/emreacar/kafepos/internal/repository/sheets"
	"github.com/emreacar/kafepos/internal/scheduler"
	"github.com/emreacar/kafepos/internal/server/handlers"
	"github.com/emreacar/kafepos/internal/server/router"
	"github.com/emreacar/kafepos/internal/service/inventory"
	"github.com/emreacar/kafepos/internal/service/reconcile"
	reportingsvc "github.com/emreacar/kafepos/internal/service/reporting"
	"github.com/emreacar/kafepos/internal/state"
	"github.com/emreacar/kafepos/pkg/clients/supabase"
	"github.com/emreacar/kafepos/pkg/logger"
)

const productLoadRetry = 30 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend := supabase.New(cfg.Supabase, baseLogger.Named("client.supabase"))
	products := state.NewCollection()
	loadProducts(ctx, backend, products, baseLogger.Named("bootstrap"))

	loc := cfg.Location()
	reportingSvc := reportingsvc.NewService(backend, loc, baseLogger.Named("svc.reporting"))

	// A confirmed sale changes revenue and profit; refresh the daily figures
	// off the request path.
	onSale := func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stats, err := reportingSvc.ComputePeriod(refreshCtx, models.PeriodToday)
		if err != nil {
			baseLogger.Warn("daily stats refresh failed", zap.Error(err))
			return
		}
		baseLogger.Info("daily stats refreshed",
			zap.String("revenue", stats.TotalRevenue.String()),
			zap.String("net_operating_profit", stats.NetOperatingProfit.String()))
	}

	coordinator := inventory.NewCoordinator(products, backend, onSale, baseLogger.Named("svc.inventory"))

	reconciler := reconcile.NewReconciler(func(ctx context.Context) (reconcile.Stream, error) {
		return backend.SubscribeProducts(ctx)
	}, products, baseLogger.Named("svc.reconcile"))
	reconciler.Start(ctx)
	defer reconciler.Stop()

	// Optional daily close sinks.
	var archive scheduler.Archive
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
		baseLogger.Info("daily close archive enabled")
	}

	var export scheduler.Export
	if cfg.Sheets.CredentialsPath != "" {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		export = sheetsRepo
		baseLogger.Info("daily close spreadsheet export enabled")
	}

	sched := scheduler.NewScheduler(cfg.DailyClose.CronSchedule, loc, reportingSvc, archive, export, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	authHandler := handlers.NewAuthHandler(backend, baseLogger.Named("handlers.auth"))
	menuHandler := handlers.NewMenuHandler(products)
	panelHandler := handlers.NewPanelHandler(products, coordinator, reportingSvc, baseLogger.Named("handlers.panel"))
	reportsHandler := handlers.NewReportsHandler(reportingSvc, backend, baseLogger.Named("handlers.reports"))

	engine := router.New(backend, authHandler, menuHandler, panelHandler, reportsHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// loadProducts seeds the collection from the backend. A failed initial read
// leaves the views empty, so retries continue in the background until a
// fetch succeeds.
func loadProducts(ctx context.Context, backend *supabase.Client, products *state.Collection, log *zap.Logger) {
	rows, err := backend.ListProducts(ctx, false)
	if err == nil {
		products.Replace(rows)
		log.Info("product collection loaded", zap.Int("count", len(rows)))
		return
	}
	log.Warn("initial product load failed, retrying in background", zap.Error(err))

	go func() {
		ticker := time.NewTicker(productLoadRetry)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rows, err := backend.ListProducts(ctx, false)
				if err != nil {
					log.Warn("product load retry failed", zap.Error(err))
					continue
				}
				products.Replace(rows)
				log.Info("product collection loaded", zap.Int("count", len(rows)))
				return
			}
		}
	}()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/config"
	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository"
	"github.com/mamadbah2/boutique/internal/repository/memory"
	"github.com/mamadbah2/boutique/internal/repository/mongodb"
	"github.com/mamadbah2/boutique/internal/repository/sheets"
	"github.com/mamadbah2/boutique/internal/scheduler"
	"github.com/mamadbah2/boutique/internal/server/handlers"
	"github.com/mamadbah2/boutique/internal/server/router"
	catalogsvc "github.com/mamadbah2/boutique/internal/service/catalog"
	commandsvc "github.com/mamadbah2/boutique/internal/service/commands"
	possvc "github.com/mamadbah2/boutique/internal/service/pos"
	reportingsvc "github.com/mamadbah2/boutique/internal/service/reporting"
	settingssvc "github.com/mamadbah2/boutique/internal/service/settings"
	stocksvc "github.com/mamadbah2/boutique/internal/service/stock"
	whatsappsvc "github.com/mamadbah2/boutique/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/boutique/pkg/clients/whatsapp"
	"github.com/mamadbah2/boutique/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.IsDevelopment()))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	var seed []models.Product
	if cfg.Store.SeedCatalog {
		seed = memory.DemoCatalog()
		baseLogger.Info("demo catalog loaded", zap.Int("products", len(seed)))
	}
	catalogStore := memory.NewCatalogStore(seed...)

	invoiceStore := memory.NewInvoiceStore()
	var invoices repository.InvoiceRepository = invoiceStore
	var reports repository.ReportRepository = invoiceStore

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		invoices, reports = mongoRepo, mongoRepo
		baseLogger.Info("mongodb invoice archive enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("MONGODB_URI missing, invoices are kept in memory only")
	}

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		sheetsExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetsExporter
	} else {
		baseLogger.Warn("google sheets credentials missing, spreadsheet export disabled")
	}

	var notifier *whatsappsvc.Notifier
	var stockNotifier stocksvc.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappsvc.NewNotifier(whatsappclient.NewClient(cfg.WhatsApp), baseLogger.Named("svc.whatsapp.out"))
		stockNotifier = notifier
	} else {
		baseLogger.Warn("whatsapp credentials missing, chat commands and supplier messages disabled")
	}

	settingsSvc := settingssvc.NewService(cfg.Store, baseLogger.Named("svc.settings"))
	catalogSvc := catalogsvc.NewService(catalogStore, baseLogger.Named("svc.catalog"))
	posSvc := possvc.NewService(catalogSvc, invoices, settingsSvc, baseLogger.Named("svc.pos"))
	stockSvc := stocksvc.NewService(catalogSvc, stockNotifier, exporter, cfg.WhatsApp.SupplierID, baseLogger.Named("svc.stock"))
	reportingSvc := reportingsvc.NewService(invoices, reports, catalogSvc, exporter, loc, baseLogger.Named("svc.reporting"))

	var messagingSvc whatsappsvc.MessagingService
	if notifier != nil {
		dispatcher := commandsvc.NewService(stockSvc, reportingSvc, catalogSvc, cfg.Store.Currency, baseLogger.Named("svc.commands"))
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, notifier, dispatcher, baseLogger.Named("svc.whatsapp"))
	}

	engine := router.New(router.Handlers{
		Products:  handlers.NewProductHandler(catalogSvc, baseLogger.Named("handlers.products")),
		Invoices:  handlers.NewInvoiceHandler(posSvc, settingsSvc, baseLogger.Named("handlers.invoices")),
		Stock:     handlers.NewStockHandler(stockSvc, baseLogger.Named("handlers.stock")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
		Settings:  handlers.NewSettingsHandler(settingsSvc, baseLogger.Named("handlers.settings")),
		Webhook:   handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, loc, reportingSvc, stockSvc, stockNotifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Name))
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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelia/internal/api"
	"travelia/internal/config"
	"travelia/internal/database"
	"travelia/internal/domain"
	"travelia/internal/events"
	"travelia/internal/export"
	"travelia/internal/google"
	"travelia/internal/logging"
	"travelia/internal/metrics"
	"travelia/internal/models"
	"travelia/internal/repository"
	"travelia/internal/service"
	"travelia/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, seed, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Storage.DataDir, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open document store")
		return err
	}

	if err := db.SyncPackages(context.Background(), seed); err != nil {
		logger.Error().Err(err).Msg("Failed to sync seed packages")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	redisClient, queue := initTaskQueue(ctx, cfg, &logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	var sheetsWorker *worker.SheetsWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker = worker.NewSheetsWorker(db, sheetsService, queue, retryPolicy, &logger)
		go sheetsWorker.Start(ctx)
	}

	eventBus := events.NewEventBus()
	initNotifier(cfg, eventBus, &logger)

	var syncWorker domain.SyncWorker
	if sheetsWorker != nil {
		syncWorker = sheetsWorker
	}

	orderService := service.NewOrderService(db, service.NewIDGenerator(), eventBus, syncWorker, cfg.Booking, &logger)
	userService := service.NewUserService(db, &logger)
	catalogService := service.NewCatalogService(db, &logger)
	exporter := export.NewExcelExporter(db, cfg.Exports.Path, &logger)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(db.Dir(), cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	apiServer := api.NewServer(cfg.Server, cfg.API, orderService, userService, catalogService, exporter, &logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, []models.TourPackage, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	seed, err := loadSeedPackages(&logger)
	if err != nil {
		return nil, nil, zerolog.Logger{}, closer, err
	}

	return cfg, seed, logger, closer, nil
}

// loadSeedPackages reads the optional tour package catalog shipped with
// the deployment. Missing file means the catalog is managed entirely
// through the admin panel.
func loadSeedPackages(logger *zerolog.Logger) ([]models.TourPackage, error) {
	packagesPath := os.Getenv("PACKAGES_PATH")
	if packagesPath == "" {
		packagesPath = "configs/packages.yaml"
	}

	data, err := os.ReadFile(packagesPath)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", packagesPath).Msg("No seed package file")
		return nil, nil
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Failed to read %s", packagesPath)
		return nil, err
	}

	var seedConfig struct {
		Packages []struct {
			IDPaket     string `yaml:"id_paket"`
			PackageName string `yaml:"nama_paket"`
			Price       int    `yaml:"harga"`
			Description string `yaml:"deskripsi"`
		} `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &seedConfig); err != nil {
		logger.Error().Err(err).Msg("Failed to parse seed packages")
		return nil, err
	}

	seed := make([]models.TourPackage, 0, len(seedConfig.Packages))
	for _, p := range seedConfig.Packages {
		seed = append(seed, models.TourPackage{
			IDPaket:     p.IDPaket,
			PackageName: p.PackageName,
			Price:       p.Price,
			Description: p.Description,
		})
	}
	return seed, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	for _, dir := range []string{cfg.Storage.DataDir, cfg.Server.UploadDir, cfg.Exports.Path} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Str("dir", dir).Msg("Failed to create directory")
			return err
		}
	}
	return nil
}

// initTaskQueue wires the sync task queue: Redis when configured, with
// an in-memory fallback behind the failover wrapper; memory only when
// Redis is absent.
func initTaskQueue(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.TaskQueue) {
	memory := repository.NewMemoryTaskQueue(models.WorkerQueueSize)
	if cfg.Redis.Address == "" {
		return nil, memory
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}

	primary := repository.NewRedisTaskQueue(redisClient)
	return redisClient, repository.NewFailoverTaskQueue(primary, memory, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadSheetID == "" {
		logger.Info().Msg("Google Sheets sync disabled")
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Error().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	if err := sheetsSvc.WarmUpCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("Google Sheets cache warm-up failed")
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

func initNotifier(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.ManagerChats) == 0 {
		logger.Info().Msg("Telegram notifications disabled")
		return
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create Telegram bot")
		return
	}
	botAPI.Debug = cfg.Telegram.Debug

	tgService := service.NewTelegramService(service.NewBotWrapper(botAPI))
	notifier := service.NewNotifier(tgService, cfg.Telegram.ManagerChats, logger)
	notifier.Subscribe(bus)
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("Telegram notifications enabled")
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Prometheus metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Metrics server error")
	}
}

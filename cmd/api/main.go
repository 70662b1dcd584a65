package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"scamwatch/internal/adapter/api"
	"scamwatch/internal/adapter/api/handler"
	apimiddleware "scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/adapter/api/router"
	"scamwatch/internal/adapter/repository"
	"scamwatch/internal/adapter/repository/sqlstore"
	"scamwatch/internal/domain/entity"
	domainrepo "scamwatch/internal/domain/repository"
	"scamwatch/internal/domain/service"
	"scamwatch/internal/infrastructure/firebase"
	"scamwatch/internal/infrastructure/notify"
	"scamwatch/internal/infrastructure/ratelimit"
	"scamwatch/internal/infrastructure/storage"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/config"
	"scamwatch/pkg/logger"
	"scamwatch/pkg/metrics"
	"scamwatch/pkg/response"
)

type repositories struct {
	reports       domainrepo.ScamReportRepository
	consolidation domainrepo.ConsolidationRepository
	comments      domainrepo.ScamCommentRepository
	stats         domainrepo.ScamStatsRepository
	users         domainrepo.UserRepository
	check         handler.StoreCheck
	close         func() error
}

type runner interface {
	Run(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.LogLevel, !cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := firebase.ClientOptions(cfg)
	if err != nil {
		logger.Fatal("Failed to resolve Google credentials: %v", err)
	}

	repos, err := openRepositories(ctx, cfg, opts)
	if err != nil {
		logger.Fatal("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer repos.close()

	verifier, devTokens := tokenVerifier(ctx, cfg, opts)

	for _, uid := range cfg.AdminUserIDs {
		if err := repos.users.SetRole(ctx, uid, entity.RoleAdmin); err != nil {
			logger.Fatal("Failed to seed admin %s: %v", uid, err)
		}
		logger.Info("Granted admin role to %s", uid)
	}

	var proofStorage service.ProofStorage
	if cfg.StorageBucket != "" {
		gcs, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.MaxProofSizeMB*1024*1024, opts...)
		if err != nil {
			logger.Fatal("Failed to initialize Cloud Storage: %v", err)
		}
		defer gcs.Close()
		proofStorage = gcs
	} else {
		logger.Info("STORAGE_BUCKET not set, proof uploads disabled")
	}

	notifier := notify.NewSendgridNotifier(notify.Config{
		APIKey:     cfg.SendgridAPIKey,
		FromEmail:  cfg.NotifyFromEmail,
		FromName:   cfg.NotifyFromName,
		Recipients: cfg.AdminNotifyEmails,
	})

	matcher := service.NewIdentifierMatcher(cfg.IdentifierMatching == config.MatchingCanonical, cfg.DefaultPhoneRegion)

	statsUseCase := usecase.NewScamStatsUseCase(repos.reports, repos.stats)
	consolidationUseCase := usecase.NewConsolidationUseCase(repos.consolidation, repos.reports, matcher, statsUseCase)
	reportUseCase := usecase.NewScamReportUseCase(
		repos.reports,
		repos.comments,
		repos.users,
		consolidationUseCase,
		statsUseCase,
		notifier,
		proofStorage,
	)
	commentUseCase := usecase.NewScamCommentUseCase(repos.comments, repos.reports)
	userUseCase := usecase.NewUserUseCase(repos.users, verifier)

	handler.Setup(reportUseCase, consolidationUseCase, statsUseCase, commentUseCase, userUseCase, handler.Options{
		MaxProofBytes:   cfg.MaxProofSizeMB * 1024 * 1024,
		DefaultPageSize: cfg.DefaultPageSize,
	})
	handler.SetupHealthHandler(cfg.StorageDriver, repos.check)
	handler.SetupDevTokenHandler()

	limiter := ratelimit.NewRateLimiter(ratelimit.Limit{PerMinute: cfg.RateLimitPerMinute})
	limiter.SetLimit(router.ActionSubmitReport, ratelimit.Limit{PerMinute: max(cfg.RateLimitPerMinute/3, 1), Burst: 5})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxProofSizeMB)))

	authMiddleware := apimiddleware.NewAuthMiddleware(userUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, authMiddleware, adminMiddleware, limiter)
	router.SetupDevRouter(e, devTokens)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Serving metrics on port %s", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return limiter.Run(ctx)
	})

	if r, ok := notifier.(runner); ok {
		g.Go(func() error {
			return r.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return errors.Join(e.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error: %v", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (*repositories, error) {
	if cfg.StorageDriver == config.StorageFirestore {
		if cfg.FirebaseProject == "" {
			return nil, errors.New("FIREBASE_PROJECT_ID is required for firestore storage")
		}
		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Firestore project %s", cfg.FirebaseProject)
		return &repositories{
			reports:       repository.NewFirestoreScamReportRepository(client),
			consolidation: repository.NewFirestoreConsolidationRepository(client),
			comments:      repository.NewFirestoreScamCommentRepository(client),
			stats:         repository.NewFirestoreScamStatsRepository(client),
			users:         repository.NewFirestoreUserRepository(client),
			check:         repository.PingFirestore(client),
			close:         client.Close,
		}, nil
	}

	client, err := sqlstore.NewClient(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	logger.Info("Using SQLite database %s", cfg.SQLitePath)
	return &repositories{
		reports:       sqlstore.NewScamReportRepository(client),
		consolidation: sqlstore.NewConsolidationRepository(client),
		comments:      sqlstore.NewScamCommentRepository(client),
		stats:         sqlstore.NewScamStatsRepository(client),
		users:         sqlstore.NewUserRepository(client),
		check:         client.Ping,
		close:         client.Close,
	}, nil
}

// tokenVerifier falls back to unsigned development tokens when running
// locally without a Firebase project. The bool reports that fallback.
func tokenVerifier(ctx context.Context, cfg *config.Config, opts []option.ClientOption) (usecase.TokenVerifier, bool) {
	if cfg.FirebaseProject == "" && cfg.IsDevelopment() {
		logger.Warn("FIREBASE_PROJECT_ID not set, accepting development tokens")
		return firebase.NewDevTokenVerifier(), true
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase: %v", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase Auth: %v", err)
	}

	return firebase.NewFirebaseAuthClient(authClient), false
}

// bodyLimit leaves a megabyte of headroom over the proof size for form fields.
func bodyLimit(maxProofSizeMB int64) string {
	return fmt.Sprintf("%dM", maxProofSizeMB+1)
}

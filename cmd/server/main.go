package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/freelance-marketplace/internal/config"
	"github.com/ignatzorin/freelance-marketplace/internal/db"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	httpRouter "github.com/ignatzorin/freelance-marketplace/internal/http/router"
	"github.com/ignatzorin/freelance-marketplace/internal/http/middleware"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/cache"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/persistence"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/service"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/auth"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/job"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/project"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/proposal"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/user"
)

type options struct {
	envFile     string
	migrateOnly bool
	store       string
}

func main() {
	var opts options
	pflag.StringVar(&opts.envFile, "env-file", ".env", "путь к .env файлу")
	pflag.BoolVar(&opts.migrateOnly, "migrate-only", false, "применить миграции и выйти")
	pflag.StringVar(&opts.store, "store", "", "хранилище: postgres или memory (перекрывает STORE_DRIVER)")
	pflag.Parse()

	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		logger.Log.WithError(err).Error("main: сервер завершился с ошибкой")
		os.Exit(1)
	}
}

// checkOptions отклоняет неизвестный драйвер и --migrate-only без PostgreSQL.
func checkOptions(opts options, driver string) error {
	if driver != config.StoreDriverPostgres && driver != config.StoreDriverMemory {
		return fmt.Errorf("main: неизвестное хранилище %q, ожидается %q или %q",
			driver, config.StoreDriverPostgres, config.StoreDriverMemory)
	}
	if opts.migrateOnly && driver == config.StoreDriverMemory {
		return errors.New("main: --migrate-only применим только к хранилищу postgres")
	}
	return nil
}

// repositories - набор хранилищ выбранного драйвера.
type repositories struct {
	users      repository.UserRepository
	jobs       repository.JobRepository
	proposals  repository.ProposalRepository
	projects   repository.ProjectRepository
	transactor repository.Transactor
	pinger     handler.Pinger
	close      func() error
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("main: ошибка загрузки конфигурации: %w", err)
	}
	if opts.store != "" {
		cfg.StoreDriver = strings.ToLower(opts.store)
	}
	if err := checkOptions(opts, cfg.StoreDriver); err != nil {
		return err
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}
	for _, w := range config.Warnings {
		logger.Log.Warn(w)
	}

	repos, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Log.WithError(err).Warn("main: ошибка закрытия хранилища")
		}
	}()

	if opts.migrateOnly {
		logger.Log.Info("main: миграции применены")
		return nil
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	rateStore, err := middleware.NewRateLimitStore(redisClient)
	if err != nil {
		return err
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Use cases.
	jobLifecycle := job.NewLifecycle(repos.jobs)
	spawner := project.NewSpawner(repos.projects, jobLifecycle)

	healthChecks := map[string]handler.Pinger{"store": repos.pinger}
	if redisClient != nil {
		healthChecks["redis"] = cache.Pinger{Client: redisClient}
	}

	handlers := httpRouter.Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUseCase(repos.users, tokenManager),
			auth.NewLoginUseCase(repos.users, tokenManager),
		),
		User: handler.NewUserHandler(
			user.NewGetUserUseCase(repos.users),
			user.NewListUsersUseCase(repos.users),
			user.NewUpdateProfileUseCase(repos.users),
		),
		Job: handler.NewJobHandler(
			job.NewCreateJobUseCase(repos.jobs),
			job.NewUpdateJobUseCase(repos.jobs),
			job.NewDeleteJobUseCase(repos.jobs),
			job.NewGetJobUseCase(repos.jobs),
			job.NewListJobsUseCase(repos.jobs, repos.users),
		),
		Proposal: handler.NewProposalHandler(
			proposal.NewCreateProposalUseCase(repos.proposals, repos.jobs),
			proposal.NewUpdateProposalStatusUseCase(repos.proposals, repos.jobs, repos.transactor, spawner),
			proposal.NewListJobProposalsUseCase(repos.proposals, repos.jobs),
			proposal.NewListMyProposalsUseCase(repos.proposals),
		),
		Project: handler.NewProjectHandler(
			project.NewListProjectsUseCase(repos.projects),
			project.NewMarkCompletedUseCase(repos.projects, repos.transactor, jobLifecycle),
			project.NewMarkPaidUseCase(repos.projects),
		),
		Health: handler.NewHealthHandler(healthChecks),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager, rateStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.WithField("port", cfg.HTTPPort).WithField("store", cfg.StoreDriver).Info("main: HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("main: http сервер: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("main: ошибка остановки http сервера: %w", err)
		}
		logger.Log.Info("main: HTTP сервер остановлен")
		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()
		logger.Log.Warn("main: используется хранилище в памяти, данные не сохраняются между запусками")
		return &repositories{
			users:      store.Users(),
			jobs:       store.Jobs(),
			proposals:  store.Proposals(),
			projects:   store.Projects(),
			transactor: store,
			pinger:     store,
			close:      func() error { return nil },
		}, nil
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("main: ошибка подключения к базе: %w", err)
	}

	if err := db.RunMigrations(ctx, dbConn); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("main: ошибка миграций: %w", err)
	}

	return postgresRepositories(dbConn), nil
}

func postgresRepositories(dbConn *sqlx.DB) *repositories {
	return &repositories{
		users:      persistence.NewUserRepositoryAdapter(dbConn),
		jobs:       persistence.NewJobRepositoryAdapter(dbConn),
		proposals:  persistence.NewProposalRepositoryAdapter(dbConn),
		projects:   persistence.NewProjectRepositoryAdapter(dbConn),
		transactor: persistence.NewTransactor(dbConn),
		pinger:     dbConn,
		close:      dbConn.Close,
	}
}

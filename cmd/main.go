package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dtroode/tasktracker-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/tasktracker-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/tasktracker-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/tasktracker-server/internal/api/http/context"
	httprouter "github.com/dtroode/tasktracker-server/internal/api/http/router"
	httpserver "github.com/dtroode/tasktracker-server/internal/api/http/server"
	"github.com/dtroode/tasktracker-server/internal/cache/redis"
	"github.com/dtroode/tasktracker-server/internal/config"
	"github.com/dtroode/tasktracker-server/internal/hasher"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/repository/memory"
	"github.com/dtroode/tasktracker-server/internal/repository/postgres"
	"github.com/dtroode/tasktracker-server/internal/server"
	"github.com/dtroode/tasktracker-server/internal/service"
	"github.com/dtroode/tasktracker-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

// storage bundles the repositories of one driver.
type storage struct {
	users    model.UserStore
	tasks    model.TaskStore
	pinger   model.Pinger
	resetter model.Resetter
	close    func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	cache, closeCache := openUserCache(ctx, cfg.Redis, logger)
	defer closeCache()

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)
	passwordHasher := hasher.NewBcrypt(cfg.Bcrypt.Cost)
	credentials := service.NewCredentials(store.users, passwordHasher, cache, logger)
	authService := service.NewAuth(credentials, passwordHasher, tokenService, logger)
	taskService := service.NewTask(store.tasks, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := httprouter.Deps{
		AuthService:    authService,
		TaskService:    taskService,
		TokenService:   tokenService,
		UserResolver:   credentials,
		ContextManager: httpctx.NewManager(),
		Pinger:         store.pinger,
		Registry:       registry,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Logger:         logger,
	}
	if cfg.Maintenance.Enabled {
		logger.Warn("maintenance endpoints are enabled, all data can be wiped over HTTP")
		deps.MaintenanceService = service.NewMaintenance(store.resetter, cache, logger)
	}

	handler, err := httprouter.New(deps)
	if err != nil {
		logger.Fatal("failed to build HTTP router", "error", err)
	}

	checker := health.NewChecker(store.pinger, cfg.GRPC.HealthInterval, logger)
	go checker.Run(ctx)

	httpServer := httpserver.NewHTTPServer(handler, net.JoinHostPort("", cfg.HTTP.Port))
	grpcServer := grpcserver.NewGRPCServer(
		grpcrouter.New(checker.Server(), logger).Register(),
		net.JoinHostPort("", cfg.GRPC.Port),
	)

	var wg sync.WaitGroup
	startServer(&wg, logger, httpServer,
		server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName), stop)
	startServer(&wg, logger, grpcServer,
		server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName), stop)

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range []model.Server{httpServer, grpcServer} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// startServer runs s in the background. A server that fails to start stops the whole process.
func startServer(wg *sync.WaitGroup, logger *logger.Logger, s model.Server, sl model.SecurityLayer, stop context.CancelFunc) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "address", s.Address(), "error", err)
			stop()
		}
	}()
}

func openStorage(ctx context.Context, cfg config.Database) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		mem := memory.New()
		return &storage{
			users:    mem.Users(),
			tasks:    mem.Tasks(),
			pinger:   mem,
			resetter: mem,
			close:    mem.Close,
		}, nil
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:    postgres.NewUserRepository(conn),
			tasks:    postgres.NewTaskRepository(conn),
			pinger:   conn,
			resetter: conn,
			close:    conn.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openUserCache connects to Redis when configured. The server runs uncached when Redis is
// disabled or unreachable.
func openUserCache(ctx context.Context, cfg config.Redis, logger *logger.Logger) (model.UserCache, func()) {
	noop := func() {}
	if cfg.Addr == "" {
		logger.Info("user cache disabled")
		return nil, noop
	}

	cache := redis.New(cfg.Addr, cfg.Password, cfg.DB, cfg.TTL)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("user cache unreachable, continuing without it", "addr", cfg.Addr, "error", err)
		_ = cache.Close()
		return nil, noop
	}

	logger.Info("user cache enabled", "addr", cfg.Addr, "ttl", cfg.TTL)
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.Error("failed to close user cache", "error", err)
		}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

package main

//	@title						Presence API
//	@version					0.1.0
//	@description				Personal online status API: current status, device activity, and live update streams.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shared secret. Format: "Bearer {secret}"

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/presence-project/presence/api/swagger"
	"github.com/presence-project/presence/internal/auth"
	"github.com/presence-project/presence/internal/config"
	"github.com/presence-project/presence/internal/device"
	"github.com/presence-project/presence/internal/event"
	"github.com/presence-project/presence/internal/page"
	"github.com/presence-project/presence/internal/server"
	"github.com/presence-project/presence/internal/state"
	"github.com/presence-project/presence/internal/status"
	"github.com/presence-project/presence/internal/store"
	"github.com/presence-project/presence/internal/stream"
	"github.com/presence-project/presence/internal/version"
	"github.com/presence-project/presence/internal/visits"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("presence server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared secret verifier. The server refuses to start without a secret;
	// every mutating endpoint depends on it.
	verifier, err := auth.NewVerifier(
		viperCfg.GetString("auth.secret"),
		viperCfg.GetString("auth.secret_hash"),
	)
	if err != nil {
		logger.Fatal("failed to initialize secret verifier", zap.Error(err))
	}

	// Panel sessions are signed with a key derived from the secret so they
	// survive restarts. With only a bcrypt hash configured there is nothing
	// stable to derive from, so an ephemeral key is generated instead.
	var signingKey []byte
	if secret := viperCfg.GetString("auth.secret"); secret != "" {
		sum := sha256.Sum256([]byte("presence-session:" + secret))
		signingKey = sum[:]
	} else {
		signingKey = make([]byte, 32)
		if _, err := rand.Read(signingKey); err != nil {
			logger.Fatal("failed to generate session signing key", zap.Error(err))
		}
		logger.Info("using auto-generated session signing key (panel sessions won't survive restarts; set auth.secret to persist them)",
			zap.String("component", "auth"),
		)
	}

	sessionTTL := viperCfg.GetDuration("auth.session_ttl")
	if sessionTTL == 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	sessions := auth.NewSessionService(signingKey, sessionTTL)
	guard := auth.NewGuard(verifier, sessions, logger.Named("auth"))
	authHandler := auth.NewHandler(guard, sessions, logger.Named("auth"))
	logger.Info("auth initialized",
		zap.String("component", "auth"),
		zap.Duration("session_ttl", sessionTTL),
	)

	// Status/device state store.
	var stateStore state.Store
	switch backend := viperCfg.GetString("state.backend"); backend {
	case "file":
		statePath := viperCfg.GetString("state.path")
		fileStore, err := state.NewFileStore(statePath, logger.Named("state"))
		if err != nil {
			logger.Fatal("failed to open state file", zap.String("path", statePath), zap.Error(err))
		}
		stateStore = fileStore
		logger.Info("state store initialized",
			zap.String("component", "state"),
			zap.String("backend", "file"),
			zap.String("path", statePath),
		)
	case "memory":
		stateStore = state.NewMemoryStore()
		logger.Info("state store initialized (memory backend, state is lost on restart)",
			zap.String("component", "state"),
		)
	default:
		logger.Fatal("unknown state backend", zap.String("backend", backend))
	}

	bus := event.NewBus(logger.Named("event"))

	// Visit counters (optional).
	var (
		visitsDB      *store.SQLiteStore
		visitsHandler *visits.Handler
	)
	visitsEnabled := viperCfg.GetBool("visits.enabled")
	if visitsEnabled {
		visitsPath := viperCfg.GetString("visits.path")
		visitsDB, err = store.New(visitsPath)
		if err != nil {
			logger.Fatal("failed to open visits database", zap.String("path", visitsPath), zap.Error(err))
		}
		defer visitsDB.Close()

		retentionDays := int(viperCfg.GetDuration("visits.retention").Hours() / 24)
		visitsService := visits.NewService(
			visitsDB,
			retentionDays,
			viperCfg.GetDuration("visits.maintenance_interval"),
			logger.Named("visits"),
		)
		if err := visitsService.Migrate(ctx); err != nil {
			logger.Fatal("failed to migrate visits schema", zap.Error(err))
		}
		go visitsService.Run(ctx)

		visitsHandler = visits.NewHandler(visitsService, logger.Named("visits"))
		logger.Info("visit counters initialized",
			zap.String("component", "visits"),
			zap.String("path", visitsPath),
			zap.Int("retention_days", retentionDays),
		)
	}

	// Status list and presentation config.
	var statusList []status.Info
	if err := viperCfg.UnmarshalKey("status.list", &statusList); err != nil {
		logger.Fatal("failed to parse status.list", zap.Error(err))
	}
	if len(statusList) == 0 {
		logger.Fatal("status.list must contain at least one status")
	}
	var meta status.PageMeta
	if err := viperCfg.UnmarshalKey("page", &meta); err != nil {
		logger.Fatal("failed to parse page config", zap.Error(err))
	}
	var display status.DisplayOptions
	if err := viperCfg.UnmarshalKey("status", &display); err != nil {
		logger.Fatal("failed to parse status config", zap.Error(err))
	}

	statusHandler := status.NewHandler(stateStore, bus, guard, statusList, meta, display, visitsEnabled, logger.Named("status"))
	deviceHandler := device.NewHandler(stateStore, bus, guard, logger.Named("device"))
	streamHandler := stream.NewHandler(bus, statusHandler.Query, logger.Named("stream"))

	pageHandler, err := page.NewHandler(statusHandler, guard, viperCfg.GetString("server.data_dir"), logger.Named("page"))
	if err != nil {
		logger.Fatal("failed to initialize page handler", zap.Error(err))
	}

	registrars := []server.RouteRegistrar{
		authHandler,
		statusHandler,
		deviceHandler,
		streamHandler,
		pageHandler,
	}
	if visitsHandler != nil {
		registrars = append(registrars, visitsHandler)
	}

	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		if visitsDB != nil {
			return visitsDB.DB().PingContext(ctx)
		}
		return nil
	})

	addr := fmt.Sprintf("%s:%s", viperCfg.GetString("server.host"), viperCfg.GetString("server.port"))
	srv := server.New(server.Config{
		Addr:           addr,
		DevMode:        viperCfg.GetBool("server.dev_mode"),
		RateLimitRPS:   viperCfg.GetFloat64("server.rate_limit_rps"),
		RateLimitBurst: viperCfg.GetInt("server.rate_limit_burst"),
	}, logger.Named("server"), readyCheck, registrars...)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("presence server ready", zap.String("addr", addr))

	// Print human-readable banner for users watching docker logs.
	fmt.Fprintf(os.Stderr, "\n  presence %s is ready!\n  Open http://localhost:%s in your browser.\n\n",
		version.Short(), viperCfg.GetString("server.port"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel() // stop background sweepers and stream fan-out

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("presence server stopped")
}

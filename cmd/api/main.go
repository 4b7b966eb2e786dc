package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/api/routes"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/admin"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/auth"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/cart"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/identity"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/marketplace"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/notifications"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/prestataire"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/logger"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/mailer"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/redis"
	"github.com/joho/godotenv"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	graphClient, err := graph.New(context.Background(), cfg.Neo4j)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap neo4j", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing neo4j driver", err)
		}
	}()

	// Redis only backs the auth rate limiter, so a missing instance degrades
	// to unthrottled auth instead of refusing to boot.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	roleStore := identity.NewRoleStore(graphClient)
	if err := seedRoles(context.Background(), roleStore); err != nil {
		logg.Error(context.Background(), "failed to seed roles", err)
		os.Exit(1)
	}

	mail := mailer.New(cfg.Mail, logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserStore:      identity.NewUserStore(graphClient),
		RoleStore:      roleStore,
		Graph:          graphClient,
		Mailer:         mail,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{Graph: graphClient, Tx: graphClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	prestataireService, err := prestataire.NewService(prestataire.ServiceParams{Graph: graphClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create prestataire service", err)
		os.Exit(1)
	}

	marketplaceService, err := marketplace.NewService(marketplace.ServiceParams{Graph: graphClient, Tx: graphClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create marketplace service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{Graph: graphClient, Tx: graphClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(graphClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			GraphPinger:   graphClient,
			Redis:         redisClient,
			Auth:          authService,
			Admin:         adminService,
			Prestataire:   prestataireService,
			Marketplace:   marketplaceService,
			Cart:          cartService,
			Notifications: notificationService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// seedRoles guarantees the three role nodes exist before any registration
// tries to attach to them.
func seedRoles(ctx context.Context, roles *identity.RoleStore) error {
	for _, role := range []enums.Role{enums.RoleClient, enums.RolePrestataire, enums.RoleAdmin} {
		if err := roles.Ensure(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

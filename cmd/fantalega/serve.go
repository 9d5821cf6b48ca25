package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/totegamma/fantalega/internal/config"
	"github.com/totegamma/fantalega/internal/infra/cache"
	"github.com/totegamma/fantalega/internal/infra/database"
	"github.com/totegamma/fantalega/internal/infra/gateway"
	"github.com/totegamma/fantalega/internal/infra/repository"
	"github.com/totegamma/fantalega/internal/logging"
	"github.com/totegamma/fantalega/internal/present/rest"
	"github.com/totegamma/fantalega/internal/present/rest/middleware"
	"github.com/totegamma/fantalega/internal/service"
	"github.com/totegamma/fantalega/internal/telemetry"
	"github.com/totegamma/fantalega/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel))

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	db, err := database.NewPostgres(cfg.Server.PostgresDsn)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	err = database.MigratePostgres(db)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb, err := database.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer rdb.Close()
	mc := database.NewMemcached(cfg.Server.MemcachedAddr)

	teamRepo := repository.NewTeamRepository(db)
	pushRepo := repository.NewPushSubscriptionRepository(db)

	var codec usecase.SessionCodec
	switch cfg.Session.Mode {
	case config.SessionModeSigned:
		codec = service.NewSignedCodec(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
	default:
		slog.Warn(
			"admin sessions use the unsigned marker cookie",
			slog.String("module", "auth"),
		)
		codec = service.NewMarkerCodec()
	}

	var users usecase.UserSessionSource
	switch cfg.UserSession.Provider {
	case config.UserSessionKratos:
		users = gateway.NewKratosGateway(cfg.UserSession.KratosURL, cfg.UserSession.CookieName, cfg.UserSession.Timeout)
	default:
		users = repository.NewSessionRepository(db)
	}
	users = cache.NewCachedSessionSource(users, cfg.UserSession.CacheTTL)

	views := cache.NewViewCache(mc, cfg.Server.ViewCacheTTL)
	signalService := service.NewSignalService(rdb)
	invalidator := service.NewInvalidationService(views, signalService)

	sessions := service.NewSessionStore(cfg.IsProduction(), cfg.UserSession.CookieName, cfg.Session.TTL)
	resolver := usecase.NewIdentityResolver(codec, users)
	gate := usecase.NewGate(teamRepo)

	handler := rest.NewHandler(
		sessions,
		middleware.NewAuthMiddleware(sessions, resolver, gate),
		usecase.NewAdminUsecase(service.NewStaticCredentials(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash), codec),
		usecase.NewTeamUsecase(teamRepo, gate, invalidator),
		usecase.NewPushUsecase(pushRepo, gate),
		users,
		views,
		signalService,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(otelecho.Middleware(cfg.Telemetry.ServiceName))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("module", "http"),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))

	handler.RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		slog.Info(
			"server started",
			slog.String("addr", cfg.Server.ListenAddr),
			slog.String("environment", cfg.Environment),
		)
		err := e.Start(cfg.Server.ListenAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/config"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/alerta"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/auditoria"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/casoindice"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/catalogo"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/contacto"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/derivacion"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/tpt"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/auth"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/db"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tbc-server",
		Short: "TB contact-tracing and TPT monitoring API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				applied := "-"
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						applied = s.AppliedAt.Format(time.RFC3339)
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, applied)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": map[string]string{"status": "ok"}})
	})

	// Repositories
	establecimientoRepo := catalogo.NewEstablecimientoRepoPG(pool)
	esquemaRepo := catalogo.NewEsquemaRepoPG(pool)
	casoRepo := casoindice.NewRepoPG(pool)
	contactoRepo := contacto.NewRepoPG(pool)
	indicacionRepo := tpt.NewIndicacionRepoPG(pool)
	consentimientoRepo := tpt.NewConsentimientoRepoPG(pool)
	seguimientoRepo := tpt.NewSeguimientoRepoPG(pool)
	reaccionRepo := tpt.NewReaccionRepoPG(pool)
	alertaRepo := alerta.NewRepoPG(pool)
	derivacionRepo := derivacion.NewRepoPG(pool)
	auditoriaRepo := auditoria.NewRepoPG(pool)

	// Services
	catalogSvc := catalogo.NewService(establecimientoRepo, esquemaRepo)
	casoSvc := casoindice.NewService(casoRepo, catalogSvc)
	contactoSvc := contacto.NewService(contactoRepo, casoSvc, catalogSvc)
	tptSvc := tpt.NewService(indicacionRepo, consentimientoRepo, seguimientoRepo, reaccionRepo,
		contactoSvc, catalogSvc, cfg.StrictTransitions)
	alertaSvc := alerta.NewService(alertaRepo)
	derivacionSvc := derivacion.NewService(derivacionRepo, contactoSvc, catalogSvc)
	auditoriaSvc := auditoria.NewService(auditoriaRepo)

	// Authenticated API group with audit trail
	auditRegistry := middleware.NewAuditRegistry()
	api := e.Group("/api")
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET not set, using development auth")
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	}
	api.Use(middleware.Audit(logger, auditRegistry, auditoriaSvc))

	catalogo.NewHandler(catalogSvc).RegisterRoutes(api, auditRegistry)
	casoindice.NewHandler(casoSvc).RegisterRoutes(api, auditRegistry)
	contacto.NewHandler(contactoSvc).RegisterRoutes(api, auditRegistry)
	tpt.NewHandler(tptSvc).RegisterRoutes(api, auditRegistry)
	alerta.NewHandler(alertaSvc).RegisterRoutes(api, auditRegistry)
	derivacion.NewHandler(derivacionSvc).RegisterRoutes(api, auditRegistry)
	auditoria.NewHandler(auditoriaSvc).RegisterRoutes(api)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

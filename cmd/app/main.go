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

	"savannah/api"
	"savannah/cmd"
	httpin "savannah/internal/adapters/in/http"
	"savannah/internal/telemetry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := telemetry.NewLogger(os.Stdout, configs.LogLevel, cmd.ServiceName, configs.ServiceVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry.SetupPropagator()
	shutdownTracer, err := telemetry.SetupTracer(ctx, configs.OtelExporterOTLPEndpoint, cmd.ServiceName, configs.ServiceVersion)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	metrics, err := telemetry.SetupMetrics(cmd.ServiceName, configs.ServiceVersion)
	if err != nil {
		log.Fatalf("failed to set up metrics: %v", err)
	}

	gormDB, sqlDB, err := telemetry.OpenDB(configs.DB(), logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, sqlDB, metrics.Meter, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	app.Start(ctx)

	jobManager, err := app.Jobs()
	if err != nil {
		log.Fatalf("failed to build jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}

	e, err := newWebServer(app, metrics.Handler, configs.APITokens)
	if err != nil {
		log.Fatalf("failed to build web server: %v", err)
	}
	addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)

	go func() {
		logger.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if err = app.Close(); err != nil {
		logger.Error("failed to release resources", "error", err)
	}
	if err = metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", "error", err)
	}
	if err = shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", "error", err)
	}
}

func newWebServer(app *cmd.CompositionRoot, metricsHandler http.Handler, tokens []string) (*echo.Echo, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}
	validator, err := httpin.OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}
	api.RegisterSwagger()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.HTTPErrorHandler = httpin.HTTPErrorHandler
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(cmd.ServiceName)))
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(slog.Default()))

	e.GET("/health", httpin.HealthHandler(app.HealthChecks()))
	e.GET("/metrics", echo.WrapHandler(metricsHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	httpin.RegisterHandlers(e, app.HTTPServer(), httpin.KeyAuth(tokens), validator)
	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

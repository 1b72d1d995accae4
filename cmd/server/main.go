// Package main is the entry point for the statgate API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"statgate/internal/domain/auth"
	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
	"statgate/internal/domain/search"
	"statgate/internal/domain/series"
	v1 "statgate/internal/infrastructure/http/v1"
	"statgate/internal/infrastructure/sdmx"
	"statgate/pkg/logger"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("starting statgate server")

	// --- SDMX protocol client ---
	clientCfg := sdmx.Config{
		Endpoint: getEnv("SDMX_ENDPOINT", sdmx.DefaultEndpoint),
		AgencyID: getEnv("SDMX_AGENCY_ID", sdmx.DefaultAgencyID),
		Proxies:  parseProxies(getEnv("SDMX_PROXIES", "")),
		Timeout:  getEnvDuration("SDMX_TIMEOUT", 0),
	}
	if getEnv("SDMX_TLS_VERIFY", "true") == "false" {
		verify := false
		clientCfg.TLSVerify = &verify
		log.Warn("TLS certificate verification disabled")
	}
	client, err := sdmx.New(clientCfg)
	if err != nil {
		log.Fatalw("failed to create sdmx client", "error", err)
	}

	// --- Domain services ---
	cat := catalog.New(client)
	schemas := schema.NewService(cat, client)
	builder := series.NewBuilder(schemas)
	executor := series.NewQueryExecutor(client)
	keyTables := series.NewKeyTableService(schemas, client)
	engine := search.NewEngine(cat, schemas)

	// --- Auth (optional) ---
	var jwtService *auth.JWTService
	var authService *auth.Service
	authRequired := getEnv("AUTH_REQUIRED", "false") == "true"
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		jwtService = auth.NewJWTService(auth.DefaultJWTConfig(secret))
		if clientID := os.Getenv("API_CLIENT_ID"); clientID != "" {
			authService = auth.NewService([]auth.Client{{
				ID:     clientID,
				Secret: mustEnv("API_CLIENT_SECRET"),
				Scopes: strings.Fields(getEnv("API_CLIENT_SCOPES", "read")),
			}}, jwtService)
		}
	} else if authRequired {
		log.Fatalw("AUTH_REQUIRED is set but JWT_SECRET is missing")
	}

	// --- Router ---
	routerCfg := v1.RouterConfig{
		Logger:       log,
		Catalog:      cat,
		Schemas:      schemas,
		Builder:      builder,
		Executor:     executor,
		KeyTables:    keyTables,
		Search:       engine,
		AuthService:  authService,
		AuthRequired: authRequired,
	}
	if jwtService != nil {
		routerCfg.JWTValidator = jwtService
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// parseProxies parses "http=http://proxy:3128,https=http://proxy:3128" into a
// scheme→URL map.
func parseProxies(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	proxies := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		scheme, target, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok {
			proxies[scheme] = target
		}
	}
	return proxies
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

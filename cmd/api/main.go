package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datachat/config"
	_ "datachat/docs" // Swagger docs
	"datachat/internal/agent/graph"
	"datachat/internal/agent/reasoner"
	"datachat/internal/agent/sqltool"
	"datachat/internal/database"
	"datachat/internal/httpserver"
	queryHTTP "datachat/internal/query/delivery/httpapi"
	whatsappDelivery "datachat/internal/query/delivery/whatsapp"
	"datachat/internal/query/usecase"
	"datachat/internal/session"
	"datachat/internal/webhook"
	"datachat/pkg/llmprovider"
	"datachat/pkg/log"
)

// @title       DataChat API
// @description Natural-language questions answered against a SQL database by an LLM-driven agent.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting DataChat...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Database driver: %s", cfg.Database.Driver)

	// 3. Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Error(ctx, "Failed to open database: ", err)
		return
	}
	defer db.Close()

	// 4. SQL toolkit
	toolkit := sqltool.New(sqltool.Config{
		DB:            db,
		Driver:        cfg.Database.Driver,
		MaxResultRows: cfg.Database.MaxResultRows,
		Logger:        logger,
	})

	// 5. LLM providers
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	llm := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, 2*time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 0),
	}, logger)

	// 6. Reasoner + orchestration graph
	reason := reasoner.New(reasoner.Config{
		LLM:     llm,
		Dialect: dialectFor(cfg.Database.Driver),
		Logger:  logger,
	})

	g := graph.New(graph.Config{
		Reasoner:      reason,
		Toolkit:       toolkit,
		Logger:        logger,
		MaxRounds:     cfg.Graph.MaxRounds,
		ReasonTimeout: cfg.Graph.ReasonTimeout,
		ToolTimeout:   cfg.Graph.ToolTimeout,
	})

	// 7. Sessions + query usecase
	sessions := session.New(session.Config{
		MaxHistory: cfg.Session.MaxHistory,
		TTL:        cfg.Session.TTL,
		Logger:     logger,
	})

	queryUC := usecase.New(logger, g, sessions, cfg.Session.DefaultID)
	queryHandler := queryHTTP.New(logger, queryUC)

	// 8. WhatsApp webhook (optional)
	var whatsappHandler whatsappDelivery.Handler
	if cfg.Webhook.Enabled && cfg.Webhook.AuthToken != "" {
		publicURL := cfg.Webhook.PublicURL
		if publicURL == "" {
			detected, ngrokErr := detectWebhookPublicURL(ctx, "http://ngrok:4040")
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect webhook public URL: %v", ngrokErr)
			} else {
				publicURL = detected
				logger.Infof(ctx, "Auto-detected webhook public URL: %s", publicURL)
			}
		}

		whatsappHandler = whatsappDelivery.New(logger, queryUC, webhook.SecurityConfig{
			AuthToken:       cfg.Webhook.AuthToken,
			PublicURL:       publicURL,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		})
		logger.Info(ctx, "WhatsApp webhook initialized")
	} else {
		logger.Warn(ctx, "WhatsApp webhook disabled: webhook.enabled is false or TWILIO_AUTH_TOKEN is missing")
	}

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		QueryHandler:    queryHandler,
		WhatsAppHandler: whatsappHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// dialectFor maps a database/sql driver name to the dialect named in prompts.
func dialectFor(driver string) string {
	switch driver {
	case "sqlite", "sqlite3":
		return "SQLite"
	case "postgres", "pgx":
		return "PostgreSQL"
	case "mysql":
		return "MySQL"
	default:
		return "SQL"
	}
}

// Command assistantd serves the ClearSpendly conversational assistant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	oai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	assistant "github.com/laeeqsiddique/ClearSpendly-V100-sub006"
	"github.com/laeeqsiddique/ClearSpendly-V100-sub006/semantic"
	"github.com/laeeqsiddique/ClearSpendly-V100-sub006/store/postgres"
)

type fileConfig struct {
	Listen                string   `yaml:"listen"`
	DatabaseURL           string   `yaml:"database_url"`
	AllowedOrigins        []string `yaml:"allowed_origins"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	KnownVendors          []string `yaml:"known_vendors"`
	Semantic              struct {
		Enabled        bool    `yaml:"enabled"`
		OpenAIAPIKey   string  `yaml:"openai_api_key"`
		Model          string  `yaml:"model"`
		Threshold      float64 `yaml:"threshold"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"semantic"`
}

func loadConfig(path string) (fileConfig, error) {
	cfg := fileConfig{Listen: ":8080"}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Semantic.OpenAIAPIKey == "" {
		cfg.Semantic.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "assistant.yaml", "path to the YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	store := postgres.New(pool)

	var similarity assistant.SimilaritySearcher
	if cfg.Semantic.Enabled && cfg.Semantic.OpenAIAPIKey != "" {
		embedder := semantic.NewOpenAIEmbedder(
			oai.NewClient(cfg.Semantic.OpenAIAPIKey),
			oai.EmbeddingModel(cfg.Semantic.Model),
		)
		// The index is fed by the receipt ingestion pipeline; it starts empty
		// here and searches fall through to the lexical path until populated.
		similarity = semantic.NewSearcher(embedder, semantic.NewIndex())
		logger.Info("semantic search enabled")
	}

	svc, err := assistant.New(assistant.Config{
		Store:             store,
		Vendors:           store,
		Semantic:          similarity,
		Logger:            logger,
		KnownVendors:      cfg.KnownVendors,
		SemanticThreshold: cfg.Semantic.Threshold,
		SemanticTimeout:   time.Duration(cfg.Semantic.TimeoutSeconds) * time.Second,
		RequestTimeout:    time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		AllowedOrigins:    cfg.AllowedOrigins,
	})
	if err != nil {
		return fmt.Errorf("building service: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           assistant.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Listen))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/futureme/internal/api"
	"example.com/futureme/internal/config"
	"example.com/futureme/internal/domain"
	"example.com/futureme/internal/events"
	"example.com/futureme/internal/persistence/flatfile"
	"example.com/futureme/internal/persistence/postgres"
	"example.com/futureme/internal/portrait"
	httptransport "example.com/futureme/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	formula, err := domain.NewFormula(cfg.FormulaFamily)
	if err != nil {
		log.Fatalf("invalid formula family: %v", err)
	}

	var (
		history     domain.HistoryRepository
		leaderboard domain.LeaderboardRepository
		goals       domain.GoalsRepository
	)
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		repo := postgres.NewRepository(pool, postgres.LeaderboardMode(cfg.LeaderboardMode))
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare schema: %v", err)
		}
		history, leaderboard, goals = repo, repo, repo
	} else {
		mode, err := flatfile.ParseTableMode(cfg.LeaderboardMode)
		if err != nil {
			log.Fatalf("invalid leaderboard mode: %v", err)
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			log.Fatalf("failed to create data dir: %v", err)
		}
		history = flatfile.NewHistoryStore(cfg.DataDir)
		leaderboard = flatfile.NewLeaderboardStore(cfg.DataDir, mode)
		goals = flatfile.NewGoalsStore(cfg.DataDir)
	}

	var publisher domain.EventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	service := domain.NewService(formula, history, leaderboard, goals,
		domain.WithPublisher(publisher),
		domain.WithHorizons(cfg.Horizons),
	)

	var generator portrait.Generator = portrait.NoopGenerator{}
	if cfg.PortraitAPIURL != "" {
		generator = portrait.NewHTTPGenerator(cfg.PortraitAPIURL, cfg.PortraitAPIToken, cfg.PortraitTimeout)
	}

	handler := api.NewHandler(service, generator, nil)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger(cors(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("futureme-service listening on %s (formula=%s)", cfg.HTTPAddress, formula.Name())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

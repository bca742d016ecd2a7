package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/upwardia/upwardia/internal/api"
	"github.com/upwardia/upwardia/internal/cache"
	"github.com/upwardia/upwardia/internal/database"
	"github.com/upwardia/upwardia/internal/localstore"
	"github.com/upwardia/upwardia/internal/logging"
	"github.com/upwardia/upwardia/internal/optimistic"
	"github.com/upwardia/upwardia/internal/server"
	"github.com/upwardia/upwardia/internal/session"
	ws "github.com/upwardia/upwardia/internal/websocket"
)

func main() {
	port := os.Getenv("UPWARDIA_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("UPWARDIA_DB_PATH")
	if dbPath == "" {
		dbPath = "upwardia.db"
	}

	logger := logging.Setup(os.Getenv("UPWARDIA_LOG_LEVEL"), os.Getenv("UPWARDIA_LOG_FORMAT"))

	// Simulated backend latency, matching what a real transport would add.
	latency := 500 * time.Millisecond
	if ms := os.Getenv("UPWARDIA_LATENCY_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil {
			log.Fatalf("invalid UPWARDIA_LATENCY_MS: %v", err)
		}
		latency = time.Duration(n) * time.Millisecond
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	store := localstore.WithLatency(localstore.NewSQLiteStore(db), latency)
	client := api.NewClient(store, logger.With("component", "api"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Initialize(ctx); err != nil {
		log.Fatalf("failed to seed data: %v", err)
	}

	qc := cache.New(logger.With("component", "cache"))
	qc.Register(cache.KeyUser, func(ctx context.Context) (any, error) { return client.User(ctx) })
	qc.Register(cache.KeyMissions, func(ctx context.Context) (any, error) { return client.Missions(ctx) })
	qc.Register(cache.KeyTransactions, func(ctx context.Context) (any, error) { return client.Transactions(ctx) })
	qc.Register(cache.KeyRewards, func(ctx context.Context) (any, error) { return client.Rewards(ctx) })
	qc.Register(cache.KeyMilestones, func(ctx context.Context) (any, error) { return client.Milestones(ctx) })

	if err := qc.Warm(ctx, cache.KeyUser, cache.KeyMissions, cache.KeyTransactions, cache.KeyRewards, cache.KeyMilestones); err != nil {
		log.Fatalf("failed to warm cache: %v", err)
	}

	hub := ws.NewHub(logger.With("component", "websocket"))
	coordinator := optimistic.NewCoordinator(qc, server.FeedNotifier(hub, logger.With("component", "mutations")), logger.With("component", "mutations"))
	sess := session.New(client)

	srv := server.New(client, store, qc, coordinator, sess, hub, logger)
	srv.BridgeFeed(ctx,
		cache.KeyUser, cache.KeyMissions, cache.KeyTransactions,
		cache.KeyRewards, cache.KeyMilestones)

	httpServer := &http.Server{
		Addr:         "127.0.0.1:" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Upwardia running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

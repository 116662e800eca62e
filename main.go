package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backyard-app/backyard-sync/boardstore"
	"github.com/backyard-app/backyard-sync/client"
	"github.com/backyard-app/backyard-sync/config"
	"github.com/backyard-app/backyard-sync/graphutil"
	"github.com/backyard-app/backyard-sync/handlers"
	"github.com/backyard-app/backyard-sync/localstore"
	"github.com/backyard-app/backyard-sync/settings"
	"github.com/backyard-app/backyard-sync/syncer"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func init() {
	// Load .env file if not in a managed environment
	if os.Getenv("BACKYARD_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	config.Load()
	if err := config.Connect(); err != nil {
		log.Fatalf("could not open board database: %v", err)
	}

	logger := slog.Default()
	local := localstore.New(config.Database)
	api := client.New(config.Env.APIBaseURL, config.Env.APIToken)
	notifier := &boardstore.LogNotifier{Log: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resolve settings (defaults <- local cache <- remote record), then
	// hydrate the board: card records with stored positions where known,
	// grid fallback where not, plus the stored edge array.
	resolver := settings.NewResolver(local, api)
	boardSettings := resolver.Resolve(ctx, config.Env.UserID)
	store := boardstore.New(local, notifier, boardstore.WithSettings(boardSettings))

	cards, err := api.ListCards(ctx, config.Env.ProjectID)
	if err != nil {
		logger.Warn("could not fetch cards, starting from stored layout only", "err", err)
	}
	layout, _ := local.LoadLayout()
	store.SetNodes(graphutil.ApplyStoredLayout(cards, layout))
	if edges, ok := local.LoadEdges(); ok {
		store.SetEdges(edges)
	}

	sync := syncer.New(store, local, api, config.Env.ProjectID, notifier)
	go func() {
		if err := sync.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("syncer stopped", "err", err)
		}
	}()

	// Periodically refresh node display data from the backend.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cards, err := api.ListCards(ctx, config.Env.ProjectID)
				if err != nil {
					logger.Warn("card refresh failed", "err", err)
					continue
				}
				store.ApplyCardData(cards)
			}
		}
	}()

	boardHandler := &handlers.BoardHandler{Store: store}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/board", boardHandler.GetBoardState)
	mux.HandleFunc("GET /api/health", boardHandler.GetHealth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{config.Env.CanvasOrigin},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	srv := &http.Server{Addr: config.Env.ListenAddr, Handler: corsHandler}
	logger.Info("board agent listening", "addr", config.Env.ListenAddr, "device", sync.DeviceID())
	if err := serveUntilShutdown(ctx, srv, store, logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// serveUntilShutdown runs the server until ctx is cancelled, then waits for
// the graceful shutdown and the final board flush to finish before returning,
// so the next session starts from what the user last saw.
func serveUntilShutdown(ctx context.Context, srv *http.Server, store *boardstore.Store, logger *slog.Logger) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "err", err)
		}
		store.SaveAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

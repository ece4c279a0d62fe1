package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkverse/clubchat/internal/config"
	"github.com/inkverse/clubchat/internal/database"
	"github.com/inkverse/clubchat/internal/moderation"
	"github.com/inkverse/clubchat/internal/presence"
	postgresrepo "github.com/inkverse/clubchat/internal/repository/postgres"
	"github.com/inkverse/clubchat/internal/service"
	"github.com/inkverse/clubchat/internal/transport/http/handlers"
	"github.com/inkverse/clubchat/internal/transport/http/middleware"
	"github.com/inkverse/clubchat/internal/transport/ws"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	channelRepo := postgresrepo.NewChannelRepo(pool)
	membershipRepo := postgresrepo.NewMembershipRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	strikeRepo := postgresrepo.NewStrikeRepo(pool)
	muteRepo := postgresrepo.NewMuteRepo(pool)

	// Moderation
	policy := moderation.NewPolicy(cfg.DenylistTerms)
	escalator := moderation.NewEscalator(policy, strikeRepo, muteRepo, cfg.StrikeThreshold)

	// Services
	channelService := service.NewChannelService(channelRepo, membershipRepo)
	messageService := service.NewMessageService(messageRepo, channelRepo, membershipRepo, escalator)

	// Real-time hub + notifier wiring
	tracker := presence.NewTracker()
	hub := ws.NewHub(channelService, messageService, tracker)
	notifier := ws.NewHubNotifier(hub)
	messageService.SetNotifier(notifier)
	messageService.SetBot(service.NewBotNotifier(messageRepo, notifier))

	// Handlers
	channelHandler := handlers.NewChannelHandler(channelService)
	messageHandler := handlers.NewMessageHandler(messageService)

	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	mux.Handle("GET /api/v1/channels", auth(http.HandlerFunc(channelHandler.List)))
	mux.Handle("GET /api/v1/channels/{id}", auth(http.HandlerFunc(channelHandler.Get)))
	mux.Handle("GET /api/v1/channels/slug/{slug}", auth(http.HandlerFunc(channelHandler.GetBySlug)))
	mux.Handle("PUT /api/v1/channels/{id}/active", auth(http.HandlerFunc(channelHandler.Activate)))
	mux.Handle("DELETE /api/v1/channels/{id}/active", auth(http.HandlerFunc(channelHandler.Deactivate)))
	mux.Handle("GET /api/v1/channels/{id}/messages", auth(http.HandlerFunc(messageHandler.List)))
	mux.Handle("PUT /api/v1/messages/{id}/pin", auth(http.HandlerFunc(messageHandler.Pin)))
	mux.Handle("DELETE /api/v1/messages/{id}/pin", auth(http.HandlerFunc(messageHandler.Unpin)))
	mux.Handle("DELETE /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Delete)))

	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: corsWrapper.Handler(mux),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

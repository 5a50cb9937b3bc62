package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tavernkeep/campaign-api/internal/auth"
	"github.com/tavernkeep/campaign-api/internal/clients/srdapi"
	"github.com/tavernkeep/campaign-api/internal/config"
	"github.com/tavernkeep/campaign-api/internal/dbx"
	"github.com/tavernkeep/campaign-api/internal/handlers/api"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/bestiary"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/campaign"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/digest"
	"github.com/tavernkeep/campaign-api/internal/orchestrators/reference"
	"github.com/tavernkeep/campaign-api/internal/pkg/idgen"
	"github.com/tavernkeep/campaign-api/internal/redis"
	bestiaryrepo "github.com/tavernkeep/campaign-api/internal/repositories/bestiary"
	"github.com/tavernkeep/campaign-api/internal/repositories/campaigns"
	"github.com/tavernkeep/campaign-api/internal/repositories/characters"
	"github.com/tavernkeep/campaign-api/internal/repositories/maps"
	"github.com/tavernkeep/campaign-api/internal/repositories/settings"
	"github.com/tavernkeep/campaign-api/internal/rulesdata"
	"github.com/tavernkeep/campaign-api/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the campaign API HTTP server with all configured services.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	handler, closers, err := buildHandler(ctx, cfg)
	if err != nil {
		for _, closeFn := range closers {
			closeFn()
		}
		return err
	}
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown timeout exceeded, forcing close")
			_ = srv.Close()
			return err
		}

		slog.Info("server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// buildHandler wires the repositories, clients, and orchestrators behind
// the API handler. The returned closers release the database and Redis
// connections.
func buildHandler(ctx context.Context, cfg *config.Config) (*api.Handler, []func(), error) {
	var closers []func()

	db, err := dbx.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() { _ = db.Close() })

	redisClient, err := redis.NewClient(cfg.Redis.Addr, &redis.Options{
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, closers, err
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	store, err := storage.New(ctx, &storage.Config{
		Bucket:       cfg.Storage.Bucket,
		Region:       cfg.Storage.Region,
		BaseEndpoint: cfg.Storage.BaseEndpoint,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		PublicHost:   cfg.Storage.PublicHost,
	})
	if err != nil {
		return nil, closers, err
	}

	resolver := rulesdata.NewResolver(rulesdata.New(nil))

	spellClient, err := srdapi.New(&srdapi.Config{
		BaseURL:  cfg.SRDAPI.BaseURL,
		Redis:    redisClient,
		Resolver: resolver,
	})
	if err != nil {
		return nil, closers, err
	}

	campaignRepo, err := campaigns.NewPostgres(&campaigns.PostgresConfig{DB: db})
	if err != nil {
		return nil, closers, err
	}
	characterRepo, err := characters.NewPostgres(&characters.PostgresConfig{DB: db})
	if err != nil {
		return nil, closers, err
	}
	mapRepo, err := maps.NewPostgres(&maps.PostgresConfig{DB: db})
	if err != nil {
		return nil, closers, err
	}
	entryRepo, err := bestiaryrepo.NewPostgres(&bestiaryrepo.PostgresConfig{DB: db})
	if err != nil {
		return nil, closers, err
	}
	settingsRepo, err := settings.NewPostgres(&settings.PostgresConfig{DB: db})
	if err != nil {
		return nil, closers, err
	}

	referenceSvc, err := reference.New(&reference.Config{
		Resolver:    resolver,
		SpellSource: spellClient,
	})
	if err != nil {
		return nil, closers, err
	}

	campaignSvc, err := campaign.New(&campaign.Config{
		CampaignRepo:  campaignRepo,
		CharacterRepo: characterRepo,
		MapRepo:       mapRepo,
		Storage:       store,
		IDGenerator:   idgen.NewUUID("img"),
	})
	if err != nil {
		return nil, closers, err
	}

	bestiarySvc, err := bestiary.New(&bestiary.Config{
		Repo:        entryRepo,
		Authorizer:  campaignSvc,
		Resolver:    resolver,
		IDGenerator: idgen.NewUUID("entry"),
	})
	if err != nil {
		return nil, closers, err
	}

	digestSvc, err := digest.New(&digest.Config{
		SettingsRepo: settingsRepo,
	})
	if err != nil {
		return nil, closers, err
	}

	handler, err := api.New(&api.Config{
		Reference:    referenceSvc,
		Bestiary:     bestiarySvc,
		Campaign:     campaignSvc,
		Digest:       digestSvc,
		Auth:         auth.NewMiddleware([]byte(cfg.Auth.JWTSecret)),
		DigestSecret: cfg.Server.DigestSecret,
	})
	if err != nil {
		return nil, closers, err
	}

	return handler, closers, nil
}

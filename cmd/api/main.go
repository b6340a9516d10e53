package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tour_catalog/internal/adapters/cloudinary"
	server "tour_catalog/internal/adapters/http_server"
	"tour_catalog/internal/adapters/observability"
	redisad "tour_catalog/internal/adapters/redis"
	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
	"tour_catalog/internal/shared"
	"tour_catalog/internal/storage/mongostore"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	gw := mongostore.NewGateway(cfg.MongoURI, cfg.MongoDB)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := gw.Connect(connectCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gw.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	tours := mongostore.NewTourRepo(db)
	if err := tours.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure tour indexes failed")
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; serving without read cache")
		} else {
			cache = rc
			defer rc.Close()
		}
	}

	var media domain.MediaUploader
	uploader, err := cloudinary.New(cloudinary.Config{
		BaseURL:   cfg.CloudBaseURL,
		CloudName: cfg.CloudName,
		APIKey:    cfg.CloudKey,
		APISecret: cfg.CloudSecret,
		Folder:    cfg.CloudFolder,
		MaxBytes:  cfg.UploadMaxSize,
		RPS:       cfg.CloudRPS,
	})
	if err != nil {
		log.Warn().Err(err).Msg("image uploads disabled")
	} else {
		media = uploader
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("create upload dir")
	}

	admins := mongostore.NewAdminRepo(db)
	h := &server.Handlers{
		Tours:          app.NewTourService(tours, media, cache, cfg.CacheTTL),
		SEO:            app.NewSEOService(tours, cache),
		Testimonials:   app.NewTestimonialService(mongostore.NewTestimonialRepo(db)),
		Auth:           app.NewAuthService(admins, cfg.JWTSecret),
		UploadDir:      cfg.UploadDir,
		UploadMaxBytes: cfg.UploadMaxSize,
		SecureCookies:  !cfg.IsDev(),
	}

	// http
	srv := server.New(cfg.AllowedOrigins())
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server failed")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/dfryer1193/signage/internal/config"
	"github.com/dfryer1193/signage/internal/jobs"
	"github.com/dfryer1193/signage/internal/middleware"
	"github.com/dfryer1193/signage/internal/rest"
	"github.com/dfryer1193/signage/shared/db/sqlite"
	"github.com/dfryer1193/signage/shared/upstream"
	"github.com/dfryer1193/signage/signage/application"
	"github.com/dfryer1193/signage/signage/cache"
	"github.com/dfryer1193/signage/signage/codec"
	"github.com/dfryer1193/signage/signage/domain"
	"github.com/dfryer1193/signage/signage/persistence"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(cfg.SQLitePath))
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamToken)

	cdc := codec.New(codec.Config{
		MaxWidth:  cfg.MaxImageWidth,
		MaxHeight: cfg.MaxImageHeight,
		Quality:   cfg.ImageQuality,
	})

	fs := afero.NewOsFs()

	media, err := newCollection(fs, cfg, cdc, "media", "/image/", upstream.NewMediaProvider(client))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open media cache")
	}

	outlets, err := newCollection(fs, cfg, cdc, "outlets", "/outlet_image/", upstream.NewOutletProvider(client))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open outlet cache")
	}

	deviceRepo := persistence.NewDeviceRepository(database.DB())
	deviceService := application.NewDeviceService(deviceRepo, client)

	scheduler := jobs.NewScheduler()
	defer scheduler.Stop()

	scheduler.Every(cfg.RefreshInterval, "media_refresh", func(ctx context.Context) {
		if err := media.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Scheduled media refresh failed")
		}
	})
	scheduler.Every(cfg.RefreshInterval, "outlet_refresh", func(ctx context.Context) {
		if err := outlets.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Scheduled outlet refresh failed")
		}
	})
	scheduler.Every(cfg.SweepInterval, "inactive_devices", deviceService.SweepInactive)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewAPI(media, outlets, deviceService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting signage server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

// newCollection builds one image collection with its own directory under
// the cache root and its own public URL prefix.
func newCollection[M any](fs afero.Fs, cfg *config.Config, cdc *codec.Codec, name, urlPrefix string, provider domain.Provider[M]) (*cache.Collection[M], error) {
	store, err := cache.NewStore(fs, filepath.Join(cfg.CacheDir, name), cfg.MaxCacheBytes, cfg.EvictTarget, cdc.Ext())
	if err != nil {
		return nil, err
	}

	return cache.NewCollection(cache.Config{
		Name:          name,
		PriorityBatch: cfg.PriorityBatch,
		Workers:       cfg.Workers,
		FetchTimeout:  cfg.FetchTimeout,
		ImageURL: func(id string) string {
			return cfg.PublicHostURL + urlPrefix + id
		},
	}, provider, store, cdc), nil
}

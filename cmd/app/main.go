package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"iter/cmd/fx/ai_fx"
	"iter/cmd/fx/cache_fx"
	"iter/cmd/fx/categories_fx"
	"iter/cmd/fx/config_fx"
	"iter/cmd/fx/controllers_fx"
	"iter/cmd/fx/db_fx"
	"iter/cmd/fx/embeddings_fx"
	"iter/cmd/fx/logger_fx"
	"iter/cmd/fx/maps_fx"
	"iter/cmd/fx/places_fx"
	"iter/cmd/fx/trips_fx"
	"iter/internal/api/controllers"
	"iter/internal/config"
	"iter/pkg/middleware"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		cache_fx.Module,
		places_fx.Module,
		categories_fx.Module,
		ai_fx.Module,
		maps_fx.Module,
		embeddings_fx.Module,
		trips_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	healthController *controllers.HealthController,
	catalogController *controllers.CatalogController,
	tripController *controllers.TripController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	controllers.RegisterRoutes(r, cfg.JWTSecret, healthController, catalogController, tripController)

	return r
}

package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arnavshah/lineup-rotator-go/pkg/auth"
	"github.com/arnavshah/lineup-rotator-go/pkg/config"
	"github.com/arnavshah/lineup-rotator-go/pkg/database"
	"github.com/arnavshah/lineup-rotator-go/pkg/handlers"
	"github.com/arnavshah/lineup-rotator-go/pkg/logger"
	"github.com/arnavshah/lineup-rotator-go/pkg/metrics"
	"github.com/arnavshah/lineup-rotator-go/pkg/session"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.Open(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Errorf("could not open database: %v", err)
		os.Exit(1)
	}
	if created, err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Warnf("ensure admin: %v", err)
	} else if created {
		log.Infof("default admin user created: %s", cfg.AdminUsername)
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPromRecorder(reg)
	if err != nil {
		log.Errorf("register metrics: %v", err)
		os.Exit(1)
	}

	h := &handlers.Handler{
		DB:       db,
		Auth:     auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Sessions: session.NewService(db, cfg.Rotation, logger.New("rotation"), rec),
		Log:      logger.New("http"),
	}
	r := handlers.NewRouter(h, reg)

	log.Infof("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Errorf("could not run server: %v", err)
		os.Exit(1)
	}
}

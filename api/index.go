package handler

import (
	"net/http"
	"sync"

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

var (
	once    sync.Once
	r       *gin.Engine
	initErr error
)

func setup() {
	log := logger.New("vercel")

	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	db, err := database.Open(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		initErr = err
		return
	}
	if _, err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Warnf("ensure admin: %v", err)
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPromRecorder(reg)
	if err != nil {
		initErr = err
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r = handlers.NewRouter(&handlers.Handler{
		DB:       db,
		Auth:     auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Sessions: session.NewService(db, cfg.Rotation, logger.New("rotation"), rec),
		Log:      log,
	}, reg)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	once.Do(setup)
	if initErr != nil {
		http.Error(w, "service unavailable: "+initErr.Error(), http.StatusServiceUnavailable)
		return
	}
	r.ServeHTTP(w, req)
}

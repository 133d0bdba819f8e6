package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"staffdesk/internal/gate"
	gatemetrics "staffdesk/internal/gate/metrics"
	"staffdesk/internal/platform/config"
	"staffdesk/internal/platform/httpserver"
	"staffdesk/internal/platform/logger"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Gate logic lives in internal/gate.
func main() {
	cfg := config.GateFromEnv()
	log := logger.New()

	router, err := gate.NewRouter(cfg, log, gatemetrics.New())
	if err != nil {
		log.Error("gate setup failed", "error", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting staffdesk gate",
		"addr", cfg.Addr,
		"upstream", cfg.UpstreamURL,
		"login_path", cfg.LoginPath,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/aircontrol/internal/buildinfo"
	"github.com/dmitrijs2005/aircontrol/internal/client/bootstrap"
	"github.com/dmitrijs2005/aircontrol/internal/client/config"
	"github.com/dmitrijs2005/aircontrol/internal/client/httpapi"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/gin-gonic/gin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	deps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer deps.Close()

	// Reuse the session saved by the CLI so online calls carry its token.
	if _, err := deps.Auth.RequireLogin(ctx); err != nil {
		logger.Warn(ctx, "no active session, remote calls may be rejected", "error", err)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(deps.WorkOrders, logger)
	if err := httpapi.Serve(ctx, cfg.ListenAddr, router, logger); err != nil {
		logger.Error(ctx, "local API stopped", "error", err)
	}

}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/elianismedina/partfinder/config"
	"github.com/elianismedina/partfinder/internal/adapter/httphandler"
	"github.com/elianismedina/partfinder/internal/adapter/storage"
	"github.com/elianismedina/partfinder/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()

	initLogger(cfg.LogLevel)
	slog.Info("vehicles api is starting")

	db, err := storage.NewSQLDB(sigCtx, cfg.SQLDB)
	if err != nil {
		slog.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := storage.NewVehiclesRepository(db)

	mux := http.NewServeMux()
	httphandler.RegisterVehicles(mux, repo)

	handler := httphandler.AllowJSON(mux)
	httpServer := httphandler.NewHTTPServer(cfg.HTTPServerAddr, handler)

	go httpServer.Run(closeApp)
	slog.Info("vehicles api is running")

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	httpServer.Close(ctx)
}

func initLogger(level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

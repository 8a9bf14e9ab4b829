package main

import (
	"context"
	"time"

	"github.com/elianismedina/partfinder/config"
	"github.com/elianismedina/partfinder/internal/app"
	"github.com/elianismedina/partfinder/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	gateway := app.New(sigCtx, cfg)

	gateway.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	gateway.Close(ctx)
}

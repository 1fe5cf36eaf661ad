package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/goline/ams/internal/config"
	"github.com/goline/ams/internal/obs"
	"github.com/goline/ams/internal/pagedef"
	"github.com/goline/ams/internal/server"
	"github.com/goline/ams/internal/store"
	"github.com/goline/ams/internal/store/sqlite"
)

func main() {
	// .env is optional; production uses real environment variables.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	def, err := pagedef.Load(cfg.PageDefPath)
	if err != nil {
		obs.Logger.Error("loading page definition", "error", err)
		os.Exit(1)
	}

	var st store.Store
	if cfg.DBPath != "" {
		s, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			obs.Logger.Error("opening product database", "error", err)
			os.Exit(1)
		}
		defer s.Close()
		st = s
		obs.Logger.Info("using sqlite product store", "path", cfg.DBPath)
	} else {
		st = store.NewMemoryStore()
		obs.Logger.Info("using in-memory product store")
	}

	err = server.Run(ctx, server.Config{
		Addr:            cfg.HTTPAddr,
		ManagementURL:   cfg.ManagementURL,
		PageDef:         def,
		Store:           st,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	if err != nil {
		obs.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

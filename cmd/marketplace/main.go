package main

import (
	"log"
	"os"

	"github.com/vendra/marketplace/migrate"
	"github.com/vendra/marketplace/seed"
	"github.com/vendra/marketplace/server"
	"github.com/vendra/marketplace/store"
)

func main() {
	logger := log.New(os.Stdout, "[marketplace] ", log.LstdFlags)

	if err := migrate.RunFromEnv(logger); err != nil {
		logger.Fatalf("migrate failed: %v", err)
	}
	if err := seed.RunFromEnv(); err != nil {
		logger.Fatalf("seed failed: %v", err)
	}

	cfg := server.GetConfig()
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		logger.Fatal("no database DSN configured (set MARKET_DATABASE__DSN)")
	}
	db, err := server.OpenGormDB(dsn)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	// Sessions and carts live in Valkey when configured, otherwise fall back
	// to the in-process buntdb store (single node, dev mode).
	var (
		sessions store.SessionStore
		carts    store.CartStore
	)
	if cfg.Valkey.Addr != "" {
		vs, err := store.NewValkeyStore(cfg.Valkey.Addr, cfg.Valkey.Prefix, cfg.SessionTTL())
		if err != nil {
			logger.Fatalf("failed to connect to valkey: %v", err)
		}
		defer vs.Close()
		sessions = vs
		carts = store.NewValkeyCartStore(vs)
	}

	srv, err := server.NewServer(server.Options{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Carts:    carts,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatalf("failed to build server: %v", err)
	}

	r := server.NewGinEngine(srv)
	addr := cfg.ListenAddr()
	logger.Printf("marketplace listening on %s (env %s)", addr, cfg.Env)
	if err := r.Run(addr); err != nil {
		logger.Fatal(err)
	}
}

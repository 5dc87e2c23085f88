package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"jobledger-engine/internal/config"
	"jobledger-engine/internal/httpapi"
	"jobledger-engine/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.LUTC)

	// .env is optional; real deployments pass env through the supervisor.
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("level=fatal msg=%q err=%v", "engine exited", err)
	}
}

func run() error {
	dataDir := os.Getenv("JOBLEDGER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	config.Overlay(&cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	dbPath := cfg.DB.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(cfg.App.DataDir, dbPath)
	}
	db, err := store.Open(dbPath, cfg.DB.BusyTimeoutMS)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	handler := httpapi.Chain(
		httpapi.NewMux(httpapi.Deps{Store: db, Cfg: cfg}),
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Recover,
		httpapi.RateLimit(cfg.HTTP.RatePerSecond, cfg.HTTP.RateBurst),
		httpapi.Auth(cfg.Auth.GatewayKey),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("level=info msg=%q addr=%s db=%s", "engine listening", ln.Addr(), dbPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

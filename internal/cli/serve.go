package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	seeded, err := db.EnsureCandidates(cfg.Database.SeedFile)
	if err != nil {
		return fmt.Errorf("seed directory: %w", err)
	}
	if seeded > 0 {
		log.Info("seeded empty directory", zap.Int("candidates", seeded))
	}

	eng, err := newEngine(db)
	if err != nil {
		return err
	}

	srv := server.New(eng, server.Options{
		Version:     VersionString(),
		CORSOrigins: cfg.Server.CORSOrigins,
		WebClient:   webClient(),
	})
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("bangapda serving",
			zap.String("addr", addr),
			zap.String("db", db.Path),
			zap.String("version", VersionString()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

// webClient prefers a configured directory so the client can be iterated on
// without rebuilding the binary.
func webClient() fs.FS {
	if dir := cfg.Server.WebDir; dir != "" {
		log.Info("serving web client from disk", zap.String("dir", dir))
		return os.DirFS(dir)
	}
	return bundledWeb
}

// Command tracked runs the track storage daemon: it loads configuration,
// builds the logger and the track Store, and serves the HTTP API until
// the process receives a termination signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arkforge/tracked/internal/httpapi"
	"github.com/arkforge/tracked/internal/store"
	"github.com/arkforge/tracked/pkg/logger"
	"github.com/arkforge/tracked/pkg/options"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to tracked.toml (defaults to ./tracked.toml, then /etc/tracked/tracked.toml)")
	flag.Parse()

	opts, err := options.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New("tracked", opts.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	log.Infow("starting tracked", "folder", opts.Folder, "host", opts.WebHost, "port", opts.WebPort)

	trackStore, err := store.New(store.Config{Folder: opts.Folder, Logger: log})
	if err != nil {
		return fmt.Errorf("initializing track store: %w", err)
	}
	defer trackStore.Close()

	server := httpapi.New(trackStore, log)

	addr := fmt.Sprintf("%s:%d", opts.WebHost, opts.WebPort)
	httpServer := &http.Server{Addr: addr, Handler: server.Router()}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

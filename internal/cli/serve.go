package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/internal/api"
	"github.com/mindgrid/mindgrid/pkg/cache"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
	"github.com/mindgrid/mindgrid/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
		storePath string
		mongoURI  string
		mongoDB   string
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mindgrid HTTP API",
		Long: `Run the mindgrid HTTP API.

The server exposes layout optimization and document storage endpoints under
/api/v1. Documents are kept in the selected store backend; layouts are cached
in Redis when --redis is given, otherwise in the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, storeKind, storePath, mongoURI, mongoDB, redisAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storeKind, "store", "memory", "document store backend (memory, file, sqlite, mongo)")
	cmd.Flags().StringVar(&storePath, "store-path", "", "file directory or sqlite database path")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb connection URI")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", appName, "mongodb database name")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the layout cache (host:port)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, storeKind, storePath, mongoURI, mongoDB, redisAddr string) error {
	st, err := newStore(ctx, storeKind, storePath, mongoURI, mongoDB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	layoutCache, err := newServeCache(ctx, redisAddr)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer layoutCache.Close()

	keyer := cache.NewScopedKeyer(nil, "api:")
	runner := pipeline.NewRunner(layoutCache, keyer, c.Logger)
	server := &http.Server{
		Addr:    addr,
		Handler: api.NewServer(st, runner, c.Logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	c.Logger.Info("serving", "addr", addr, "store", storeKind)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newStore opens the selected document store backend.
func newStore(ctx context.Context, kind, path, mongoURI, mongoDB string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		return store.NewFileStore(path)
	case "sqlite":
		if path == "" {
			return nil, errors.New("sqlite store requires --store-path")
		}
		return store.NewSQLiteStore(path)
	case "mongo":
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

// newServeCache picks the layout cache backend for the server: Redis when an
// address is given, the local file cache otherwise.
func newServeCache(ctx context.Context, redisAddr string) (cache.Cache, error) {
	if redisAddr != "" {
		return cache.NewRedisCacheAddr(ctx, redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

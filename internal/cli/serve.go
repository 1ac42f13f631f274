package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualizeme/internal/server"
	"github.com/matzehuels/visualizeme/pkg/cache"
	"github.com/matzehuels/visualizeme/pkg/config"
	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/store"
)

// redisKeyPrefix namespaces cache keys in a shared Redis instance.
const redisKeyPrefix = appName + ":"

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, cacheBackend, storeBackend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualizer over HTTP and WebSocket",
		Long: `Serve the visualizer over HTTP and WebSocket.

Documents are created with POST /api/documents and driven with events on
POST /api/documents/{id}/events or the WebSocket at /api/documents/{id}/ws.

Backends come from the [server] section of the config file and the
VISUALIZEME_* environment variables; the flags below override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				cfg.Server.Cache = cacheBackend
			}
			if cmd.Flags().Changed("store") {
				cfg.Server.Store = storeBackend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts := pipeline.Options{}
			applyConfig(cmd, &opts, cfg)
			return c.runServe(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "artifact cache: memory, file, redis, none")
	cmd.Flags().StringVar(&storeBackend, "store", "", "document store: memory, file, mongo")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, opts pipeline.Options) error {
	runner, err := c.serverRunner(ctx, cfg)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg.Server)
	if err != nil {
		_ = runner.Close()
		return err
	}

	srv := server.New(server.Config{
		Runner:   runner,
		Store:    st,
		Options:  opts,
		Debounce: cfg.SearchDebounce(),
		Logger:   c.Logger,
		Origins:  cfg.Server.Origins,
	})
	defer func() {
		if err := srv.Close(); err != nil {
			c.Logger.Warn("close backends", "error", err)
		}
	}()

	printSuccess("Serving on %s", cfg.Server.Addr)
	printKeyValue("cache", cfg.Server.Cache)
	printKeyValue("store", cfg.Server.Store)
	printNewline()

	return srv.Serve(ctx, cfg.Server.Addr)
}

// serverRunner builds a runner over the configured cache backend.
func (c *CLI) serverRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	sc := cfg.Server
	var keyer cache.Keyer
	var cc cache.Cache
	switch sc.Cache {
	case config.CacheNone:
		cc = cache.NewNullCache()
	case config.CacheFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		cc = fc
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, sc.RedisURL)
		if err != nil {
			return nil, err
		}
		cc = rc
		keyer = cache.NewScopedKeyer(nil, redisKeyPrefix)
	default:
		mc, err := cache.NewMemoryCache(sc.CacheEntries)
		if err != nil {
			return nil, err
		}
		cc = mc
	}
	c.Logger.Debug("artifact cache", "backend", sc.Cache)
	return c.runnerWith(cfg, cc, keyer), nil
}

// openStore opens the configured snapshot store.
func openStore(ctx context.Context, sc config.ServerConfig) (store.Store, error) {
	switch sc.Store {
	case config.StoreFile:
		return store.NewFileStore(dataDir())
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      sc.MongoURI,
			Database: sc.MongoDatabase,
		})
	}
	return store.NewMemoryStore(), nil
}

// dataDir returns the document directory using XDG standard
// (~/.local/share/visualizeme/documents/). Empty lets the store choose.
func dataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "documents")
	}
	return ""
}

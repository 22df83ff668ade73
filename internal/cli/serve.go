package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/api"
	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
)

// Cache backends accepted by serve --cache.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheMongo = "mongo"
	cacheNone  = "none"
)

type serveOpts struct {
	addr      string
	cache     string
	redisAddr string
	redisDB   int
	mongoURI  string
	mongoDB   string
	prefix    string
	maxBody   int64
	timeout   time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		cache:     cacheFile,
		redisAddr: "localhost:6379",
		mongoURI:  "mongodb://localhost:27017",
		mongoDB:   cache.DefaultMongoDatabase,
		maxBody:   api.DefaultMaxBodyBytes,
		timeout:   api.DefaultRequestTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tag clouds over HTTP",
		Long: `Serve runs the HTTP API:

  GET  /healthz
  POST /v1/clouds?format=json|svg|png|pdf   {"text": "...", "options": {...}}

Layouts and artifacts are cached in the chosen backend and shared between
requests with identical inputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	fl.StringVar(&opts.cache, "cache", opts.cache, "cache backend: file, redis, mongo, none")
	fl.StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "Redis address (--cache redis)")
	fl.IntVar(&opts.redisDB, "redis-db", 0, "Redis database number (--cache redis)")
	fl.StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB connection URI (--cache mongo)")
	fl.StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database (--cache mongo)")
	fl.StringVar(&opts.prefix, "cache-prefix", "", "prefix for every cache key, to share a backend")
	fl.Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body in bytes")
	fl.DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	backend, err := openCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.prefix)
	}
	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	defer runner.Close()

	c.Logger.Info("cache ready", "backend", opts.cache, "prefix", opts.prefix)
	srv := api.New(runner, c.Logger,
		api.WithMaxBodyBytes(opts.maxBody),
		api.WithRequestTimeout(opts.timeout))
	return srv.ListenAndServe(ctx, opts.addr)
}

func openCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cache {
	case cacheFile:
		return newCache(false)
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: opts.redisAddr, DB: opts.redisDB})
	case cacheMongo:
		return cache.NewMongoCache(ctx, cache.MongoOptions{URI: opts.mongoURI, Database: opts.mongoDB})
	default:
		return nil, fmt.Errorf("unknown cache backend %q (must be one of: file, redis, mongo, none)", opts.cache)
	}
}

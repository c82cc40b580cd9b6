package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/gopraise/internal/config"
	"github.com/tejashwikalptaru/gopraise/internal/logger"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
	"github.com/tejashwikalptaru/gopraise/internal/server"
	"github.com/tejashwikalptaru/gopraise/internal/server/storage"
)

// errNoStorage is returned when neither a bucket nor a root directory is configured.
var errNoStorage = errors.New("no storage configured: set minio.endpoint or server.root_dir")

func newServeCommand(opts *options) *cobra.Command {
	var addr, root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storage proxy",
		Long: `Serve the song library over HTTP: /api/list, /api/file, /api/bible/books and
/api/bible/file. Objects come from a MinIO bucket (optionally with a Redis listing
cache) or from a local directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := opts.settings
			if addr != "" {
				settings.Server.ListenAddr = addr
			}
			if root != "" {
				settings.Server.RootDir = root
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := serverLogger(settings.Log)
			store, closer, err := openObjectStore(ctx, log, settings)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			srv := server.New(log, store, server.Options{
				Addr:      settings.Server.ListenAddr,
				ListDir:   settings.Server.ListDir,
				ListLimit: settings.Server.ListLimit,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8787)")
	cmd.Flags().StringVar(&root, "root", "", "serve objects from this directory instead of MinIO")
	return cmd
}

func serverLogger(s config.Log) *slog.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(s.Level, cfg.Level)
	cfg.File = s.File
	if s.Format != "" {
		cfg.Format = s.Format
	}
	return logger.NewLogger(cfg).With(slog.String("component", "server"))
}

// openObjectStore picks the backing store: MinIO when an endpoint is set,
// wrapped in a Redis listing cache when Redis is configured, otherwise the
// local root directory. The returned closer, if any, releases the cache.
func openObjectStore(ctx context.Context, log *slog.Logger, settings config.Config) (ports.ObjectStore, io.Closer, error) {
	if root := settings.Server.RootDir; root != "" && settings.Minio.Endpoint == "" {
		store, err := storage.NewDirStore(root)
		if err != nil {
			return nil, nil, err
		}
		log.Info("serving from directory", slog.String("root", root))
		return store, nil, nil
	}

	if settings.Minio.Endpoint == "" {
		return nil, nil, errNoStorage
	}

	m := settings.Minio
	bucket, err := storage.NewMinioStore(ctx, log, storage.MinioConfig{
		Endpoint:  m.Endpoint,
		AccessKey: m.AccessKey,
		SecretKey: m.SecretKey,
		Bucket:    m.Bucket,
		Region:    m.Region,
		UseSSL:    m.UseSSL,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("serving from bucket", slog.String("endpoint", m.Endpoint), slog.String("bucket", m.Bucket))

	if settings.Redis.Addr == "" {
		return bucket, nil, nil
	}

	cache, err := storage.NewRedisListingCache(ctx, settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
	if err != nil {
		// The proxy still works without its cache.
		log.Warn("redis unavailable, listing cache disabled", slog.Any("error", err))
		return bucket, nil, nil
	}
	log.Info("listing cache enabled", slog.String("redis", settings.Redis.Addr))
	return storage.NewCachedStore(log, bucket, cache, settings.Server.ListingTTL()), cache, nil
}

package internal

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallpapers/internal/client"
	"wallpapers/internal/config"
	"wallpapers/internal/events"
	"wallpapers/internal/server"
	"wallpapers/internal/store"
	drivestore "wallpapers/internal/store/drive"
	fsstore "wallpapers/internal/store/firestore"
	"wallpapers/internal/tags"
	"wallpapers/internal/telemetry"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const shutdownTimeout = 10 * time.Second

// Bootstrap runs the API server until SIGINT or SIGTERM.
func Bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{ServiceName: "wallpapers-api", Stdout: cfg.Telemetry.Stdout})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTelemetry(sctx)
	}()

	opts, err := client.Credentials(cfg.Google.ServiceAccount)
	if err != nil {
		return err
	}

	b, err := newBackend(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	var storer store.Storer
	if b.storer != nil {
		storer = store.NewBreaker(b.storer, store.DefaultBreakerConfig(cfg.Backend), logger)
	}

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithCORSOrigins(cfg.Server.CORSOrigins...),
	}
	if b.tags != nil {
		serverOpts = append(serverOpts, server.WithTags(b.tags))
	}
	if cfg.Google.TopicID != "" {
		pub, err := events.NewPublisher(ctx, cfg.Google.ProjectID, cfg.Google.TopicID, opts...)
		if err != nil {
			return err
		}
		defer func() { _ = pub.Close() }()
		serverOpts = append(serverOpts, server.WithPublisher(pub))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(storer, serverOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("url", "http://localhost:"+cfg.Server.Port), zap.String("backend", cfg.Backend))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

type backend struct {
	storer  store.Storer
	tags    tags.Reader
	closers []io.Closer
}

func (b backend) Close() {
	for _, c := range b.closers {
		_ = c.Close()
	}
}

// newBackend selects the wallpaper storage. A Drive backend that is not
// configured or not authorised leaves storer nil and the server answers 503.
func newBackend(ctx context.Context, cfg config.Config, logger *zap.Logger, opts []option.ClientOption) (backend, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		app, err := client.Firebase(ctx, cfg.Google.ProjectID, cfg.Google.Bucket, opts...)
		if err != nil {
			return backend{}, err
		}

		fs, err := app.Firestore(ctx)
		if err != nil {
			return backend{}, errors.Wrap(err, "firestore")
		}

		sc, err := app.Storage(ctx)
		if err != nil {
			_ = fs.Close()
			return backend{}, errors.Wrap(err, "storage")
		}

		bucket, err := sc.DefaultBucket()
		if err != nil {
			_ = fs.Close()
			return backend{}, errors.Wrap(err, "bucket")
		}

		return backend{
			storer:  fsstore.New(cfg.Google.Collection, fs, bucket, cfg.Google.Bucket),
			tags:    tags.New(cfg.Google.TagsCollection, fs),
			closers: []io.Closer{fs},
		}, nil

	default:
		if cfg.Drive.FolderID == "" {
			logger.Warn("GOOGLE_DRIVE_FOLDER_ID not set, Drive service is not available")
			return backend{}, nil
		}

		hc, err := drivestore.OAuthClient(ctx, cfg.Drive.CredentialsPath, cfg.Drive.TokenPath)
		if err != nil {
			logger.Warn("Drive authorisation failed, run drivetoken", zap.Error(err))
			return backend{}, nil
		}

		s, err := drivestore.New(ctx, cfg.Drive.FolderID, logger, option.WithHTTPClient(hc))
		if err != nil {
			logger.Warn("Drive service is not available", zap.Error(err))
			return backend{}, nil
		}
		return backend{storer: s}, nil
	}
}

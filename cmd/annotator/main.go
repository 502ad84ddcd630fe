// Command annotator tags uploaded wallpapers with Cloud Vision labels and
// colours as upload events arrive.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallpapers/internal/annotator"
	"wallpapers/internal/client"
	"wallpapers/internal/config"
	"wallpapers/internal/events"
	"wallpapers/internal/tags"
	"wallpapers/internal/telemetry"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		_, _ = os.Stderr.WriteString("annotator error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Google.TopicID == "" {
		return errors.New("TOPIC_ID is required")
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{ServiceName: "wallpapers-annotator", Stdout: cfg.Telemetry.Stdout})
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	opts, err := client.Credentials(cfg.Google.ServiceAccount)
	if err != nil {
		return err
	}

	app, err := client.Firebase(ctx, cfg.Google.ProjectID, cfg.Google.Bucket, opts...)
	if err != nil {
		return err
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return errors.Wrap(err, "firestore")
	}
	defer fs.Close()

	vc, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "vision client")
	}
	defer vc.Close()

	a := annotator.New(vc, tags.New(cfg.Google.TagsCollection, fs), &http.Client{Timeout: time.Minute}, logger)

	err = events.Receive(ctx, cfg.Google.ProjectID, cfg.Google.TopicID, cfg.Google.SubID, a.Handle, logger, opts...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("annotator stopped", zap.String("subscription", cfg.Google.SubID))
	return nil
}

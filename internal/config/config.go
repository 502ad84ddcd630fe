// Package config loads settings from the environment, after reading a .env
// file when one is present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendDrive     = "drive"
	BackendFirestore = "firestore"
)

type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Backend   string
	Drive     DriveConfig
	Google    GoogleConfig
	Client    ClientConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DriveConfig struct {
	FolderID        string
	CredentialsPath string
	TokenPath       string
}

type GoogleConfig struct {
	ProjectID string
	// ServiceAccount is the base64 encoded service account JSON.
	ServiceAccount string
	Bucket         string
	Collection     string
	TagsCollection string
	TopicID        string
	SubID          string
}

type ClientConfig struct {
	BaseURL string
}

type TelemetryConfig struct {
	Stdout bool
}

func defaults() Config {
	return Config{
		Env:      "production",
		LogLevel: "info",
		Server: ServerConfig{
			Port:        "3001",
			CORSOrigins: []string{"*"},
		},
		Backend: BackendDrive,
		Drive: DriveConfig{
			CredentialsPath: "oauth-credentials.json",
			TokenPath:       "token.json",
		},
		Google: GoogleConfig{
			Collection:     "Wallpapers",
			TagsCollection: "WallpaperTags",
			SubID:          "wallpaper-uploads-annotator",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:3001",
		},
	}
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := defaults()

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("ENV", &cfg.Env)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("PORT", &cfg.Server.Port)
	str("BACKEND", &cfg.Backend)
	str("GOOGLE_DRIVE_FOLDER_ID", &cfg.Drive.FolderID)
	str("DRIVE_CREDENTIALS_PATH", &cfg.Drive.CredentialsPath)
	str("DRIVE_TOKEN_PATH", &cfg.Drive.TokenPath)
	str("PROJECT_ID", &cfg.Google.ProjectID)
	str("FIRESTORE_SA", &cfg.Google.ServiceAccount)
	str("BUCKET", &cfg.Google.Bucket)
	str("FIRESTORE_COLLECTION", &cfg.Google.Collection)
	str("TAGS_COLLECTION", &cfg.Google.TagsCollection)
	str("TOPIC_ID", &cfg.Google.TopicID)
	str("SUB_ID", &cfg.Google.SubID)
	str("GALLERY_API", &cfg.Client.BaseURL)

	if v := getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	if v := getenv("OTEL_STDOUT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrapf(err, "OTEL_STDOUT %q", v)
		}
		cfg.Telemetry.Stdout = b
	}

	switch cfg.Backend {
	case BackendDrive, BackendFirestore:
	default:
		return Config{}, errors.Errorf("unknown BACKEND %q (want %s or %s)", cfg.Backend, BackendDrive, BackendFirestore)
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.Wrap(err, "LOG_LEVEL")
	}

	return cfg, nil
}

func splitList(v string) []string {
	var res []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func (c Config) Development() bool {
	return c.Env == "development"
}

// Logger builds the zap logger for c.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Development() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

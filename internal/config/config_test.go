package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, BackendDrive, cfg.Backend)
	assert.Equal(t, "token.json", cfg.Drive.TokenPath)
	assert.Equal(t, "http://localhost:3001", cfg.Client.BaseURL)
	assert.False(t, cfg.Development())
	assert.False(t, cfg.Telemetry.Stdout)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"ENV":                    "development",
		"PORT":                   "8080",
		"BACKEND":                "firestore",
		"GOOGLE_DRIVE_FOLDER_ID": "folder",
		"PROJECT_ID":             "wallpapers-dev",
		"BUCKET":                 "images.example.com",
		"TOPIC_ID":               "uploads",
		"CORS_ORIGINS":           "http://localhost:5173, https://gallery.example.com,",
		"OTEL_STDOUT":            "true",
		"LOG_LEVEL":              "debug",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendFirestore, cfg.Backend)
	assert.Equal(t, "folder", cfg.Drive.FolderID)
	assert.Equal(t, "wallpapers-dev", cfg.Google.ProjectID)
	assert.Equal(t, "images.example.com", cfg.Google.Bucket)
	assert.Equal(t, "uploads", cfg.Google.TopicID)
	assert.Equal(t, []string{"http://localhost:5173", "https://gallery.example.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Telemetry.Stdout)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(env(map[string]string{"BACKEND": "s3"}))
	assert.Error(t, err)

	_, err = load(env(map[string]string{"OTEL_STDOUT": "maybe"}))
	assert.Error(t, err)

	_, err = load(env(map[string]string{"LOG_LEVEL": "loud"}))
	assert.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr)
	assert.Equal(t, "cli", cfg.Backend.Kind)
	assert.Equal(t, 300*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, language.Arabic, cfg.Translate.TargetLanguage)
	assert.True(t, cfg.Translate.DefaultRTL)
	assert.True(t, cfg.Translate.FilterThoughts)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.Zero(t, cfg.Storage.Retention())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_KIND", "openai")
	t.Setenv("BACKEND_TIMEOUT", "30")
	t.Setenv("TARGET_LANGUAGE", "fr")
	t.Setenv("RETENTION_HOURS", "24")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Backend.Kind)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, language.French, cfg.Translate.TargetLanguage)
	assert.Equal(t, 24*time.Hour, cfg.Storage.Retention())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestNew_InvalidBackendKind(t *testing.T) {
	t.Setenv("BACKEND_KIND", "grpc")
	_, err := New()
	assert.Error(t, err)
}

func TestNew_InvalidTargetLanguage(t *testing.T) {
	t.Setenv("TARGET_LANGUAGE", "not a tag!!")
	_, err := New()
	assert.Error(t, err)
}

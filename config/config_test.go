package config

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CAROUSEL_THEME", "CAROUSEL_WORKDIR", "CAROUSEL_OUTDIR", "CAROUSEL_PDF_NAME",
		"CAROUSEL_LOGO", "CAROUSEL_WORKERS", "CAROUSEL_SKIP_FAILED", "CAROUSEL_PDF_DPI", "DEBUG",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "carousel", cfg.Theme)
	assert.Equal(t, "output_slides", cfg.OutDir)
	assert.Equal(t, "carousel.pdf", cfg.PDFName)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, false, cfg.SkipFailed)
	assert.Equal(t, 72.0, cfg.PDFDPI)
	assert.Equal(t, false, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAROUSEL_THEME", "classic")
	t.Setenv("CAROUSEL_WORKERS", "8")
	t.Setenv("CAROUSEL_SKIP_FAILED", "true")
	t.Setenv("CAROUSEL_PDF_DPI", "144")
	t.Setenv("CAROUSEL_LOGO", "/assets/logo.png")
	t.Setenv("DEBUG", "1")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, true, cfg.SkipFailed)
	assert.Equal(t, 144.0, cfg.PDFDPI)
	assert.Equal(t, "/assets/logo.png", cfg.Logo)
	assert.Equal(t, true, cfg.Debug)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAROUSEL_WORKERS", "many")
	t.Setenv("CAROUSEL_PDF_DPI", "-5")

	cfg, err := Load()
	assert.Equal(t, nil, err)
	assert.Equal(t, 4, cfg.Workers)

	assert.Equal(t, nil, cfg.Validate())
	assert.Equal(t, 72.0, cfg.PDFDPI)
}

// Package config 从环境变量与 .env 文件读取命令行参数的默认值。
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	// Theme is a built-in theme name (classic, carousel) or a .theme file path.
	Theme string

	// Paths
	WorkDir string // plan JSON and background images
	OutDir  string // rendered slides and the PDF
	PDFName string
	Logo    string

	// Rendering
	Workers    int
	SkipFailed bool
	PDFDPI     float64

	Debug bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		Theme: getEnv("CAROUSEL_THEME", "carousel"),

		WorkDir: getEnv("CAROUSEL_WORKDIR", "."),
		OutDir:  getEnv("CAROUSEL_OUTDIR", "output_slides"),
		PDFName: getEnv("CAROUSEL_PDF_NAME", "carousel.pdf"),
		Logo:    getEnv("CAROUSEL_LOGO", ""),

		Workers:    getEnvInt("CAROUSEL_WORKERS", 4),
		SkipFailed: getEnvBool("CAROUSEL_SKIP_FAILED", false),
		PDFDPI:     getEnvFloat("CAROUSEL_PDF_DPI", 72),

		Debug: getEnvBool("DEBUG", false),
	}

	return cfg, nil
}

// Validate 修正无效取值并给出提示。
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		log.Warn().Int("workers", c.Workers).Msg("CAROUSEL_WORKERS must be positive, using 1")
		c.Workers = 1
	}
	if c.PDFDPI <= 0 {
		log.Warn().Float64("dpi", c.PDFDPI).Msg("CAROUSEL_PDF_DPI must be positive, using 72")
		c.PDFDPI = 72
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"

	"facturas/internal/logger"
)

type Config struct {
	// Reference data: either a Google Sheets workbook URL or a local
	// XLSX file. Both may be empty; entry then degrades to free text.
	RefdataSheetURL string
	RefdataWorkbook string

	// Export Configuration
	ExportDir string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		RefdataSheetURL: getEnv("REFDATA_SHEET_URL", ""),
		RefdataWorkbook: getEnv("REFDATA_WORKBOOK", ""),
		ExportDir:       getEnv("EXPORT_DIR", "."),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.RefdataSheetURL != "" && c.RefdataWorkbook != "" {
		return fmt.Errorf("REFDATA_SHEET_URL and REFDATA_WORKBOOK are mutually exclusive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

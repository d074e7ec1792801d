package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process-wide settings, read once at startup and injected
// into constructors. Values never change after Load.
type Config struct {
	Port     string
	LogLevel string
	ShowDocs bool

	// DefaultParserURL is the downstream parse endpoint used when a request
	// does not carry its own override. Empty means "not configured".
	DefaultParserURL string

	// LibreOfficeBin overrides binary discovery when set.
	LibreOfficeBin string

	ConvertTimeout       time.Duration
	ParserTimeout        time.Duration
	ParserConnectTimeout time.Duration

	MaxUploadBytes int64
}

func Load() Config {
	parserURL := os.Getenv("PARSER_URL")
	if parserURL == "" {
		parserURL = os.Getenv("PARSE_URL")
	}

	loBin := os.Getenv("LIBREOFFICE_BIN")
	if loBin == "" {
		loBin = os.Getenv("LIBREOFFICE_PATH")
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ShowDocs:             getEnv("SHOW_DOCS", "false") == "true",
		DefaultParserURL:     parserURL,
		LibreOfficeBin:       loBin,
		ConvertTimeout:       getEnvDuration("CONVERT_TIMEOUT", 120*time.Second),
		ParserTimeout:        getEnvDuration("PARSER_TIMEOUT", 300*time.Second),
		ParserConnectTimeout: getEnvDuration("PARSER_CONNECT_TIMEOUT", 20*time.Second),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_MB", 50)) << 20,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

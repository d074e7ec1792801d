package main

import (
	"log"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/slidepress/pptx2pdf/internal/config"
	"github.com/slidepress/pptx2pdf/internal/delivery"
	"github.com/slidepress/pptx2pdf/internal/office"
	"github.com/slidepress/pptx2pdf/internal/parser"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	_ = godotenv.Load()

	cfg := config.Load()

	// =========================================================================
	// LOGGER
	// =========================================================================

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	baseLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// SERVICES
	// =========================================================================

	converter := office.NewSofficeConverter(cfg.LibreOfficeBin)
	officeService := office.NewService(converter, cfg.ConvertTimeout)

	parserClient := parser.NewHTTPClient(cfg.ParserTimeout, cfg.ParserConnectTimeout)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Parser-Url"},
	}))

	h := delivery.NewConvertHandler(officeService, parserClient, cfg, zl)
	delivery.RegisterRoutes(r, h, cfg.ShowDocs)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "pptx2pdf",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

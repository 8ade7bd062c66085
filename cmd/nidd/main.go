package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/api"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/common"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/nid"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/recognize"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, err := buildRecognizer(cfg, logger)
	if err != nil {
		logger.Error("recognizer setup failed", "error", err)
		os.Exit(1)
	}

	engine := nid.NewEngine(rec, logger)
	limiter := api.NewSlidingWindow(cfg.Auth.RateLimit, cfg.Auth.RateWindow)
	srv := api.NewServer(engine, limiter, logger, cfg)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "ocr_backend", cfg.OCR.Backend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

// buildRecognizer wires the recognition adapter selected by configuration.
// The adapter is created once and reused for the life of the process.
func buildRecognizer(cfg *common.Config, logger *slog.Logger) (recognize.Recognizer, error) {
	switch cfg.OCR.Backend {
	case "remote":
		return recognize.NewRemote(recognize.RemoteConfig{
			URL:     cfg.OCR.RemoteURL,
			Timeout: cfg.OCR.RemoteTimeout,
			Params: recognize.Params{
				BeamWidth:         cfg.OCR.BeamWidth,
				ContrastThreshold: cfg.OCR.ContrastThreshold,
				AdjustContrast:    cfg.OCR.AdjustContrast,
				TextThreshold:     cfg.OCR.TextThreshold,
				LowText:           cfg.OCR.LowText,
				LinkThreshold:     cfg.OCR.LinkThreshold,
			},
		}, logger), nil
	case "tesseract":
		return recognize.NewTesseract(recognize.TesseractConfig{
			Binary:      cfg.OCR.Tesseract,
			Lang:        cfg.OCR.TesseractLang,
			TessdataDir: cfg.OCR.TessdataDir,
			PSM:         cfg.OCR.PSM,
			OEM:         cfg.OCR.OEM,
		}, logger), nil
	default:
		return nil, common.NewAppError("CONFIG_ERROR", "unknown OCR_BACKEND: "+cfg.OCR.Backend, common.ErrInvalidInput)
	}
}

package main

import (
	"context"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/constants"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/export"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/nid"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/recognize"
)

type dirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	out := flag.String("out", "extractions.xlsx", "path of the XLSX report to write")
	lang := flag.String("lang", "eng", "tesseract language")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "nidbatch [-out report.xlsx] <directory>")
		os.Exit(2)
	}
	root := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	rec := recognize.NewTesseract(recognize.TesseractConfig{Lang: *lang}, logger)
	engine := nid.NewEngine(rec, logger)

	rows, stats := walkAndExtract(ctx, engine, root, logger)

	report, err := export.NewService(logger).BatchReportXLSX(rows)
	if err != nil {
		logger.Error("build report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, report, 0o640); err != nil {
		logger.Error("write report", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"report", *out,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
}

// walkAndExtract walks root, filters to allowed image extensions, skips
// hidden entries, and runs the engine on each file.
func walkAndExtract(ctx context.Context, engine *nid.Engine, root string, logger *slog.Logger) ([]export.Row, dirStats) {
	var rows []export.Row
	var stats dirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil // continue walking
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !constants.IsAllowedExt(name) {
			return nil
		}
		stats.Matched++

		result := engine.Extract(ctx, path)
		if result.Error != "" {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
		rows = append(rows, export.Row{Path: path, Result: result})
		return nil
	})
	if err != nil {
		logger.Error("walk failed", "root", root, "error", err)
	}
	return rows, stats
}

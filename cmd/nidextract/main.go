package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/nid"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/recognize"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/similarity"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	name := flag.String("name", "", "expected holder name to score against")
	dob := flag.String("dob", "", "expected date of birth to score against")
	lang := flag.String("lang", "eng", "tesseract language")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "nidextract [-name N] [-dob D] <image>")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rec := recognize.NewTesseract(recognize.TesseractConfig{Lang: *lang}, logger)
	engine := nid.NewEngine(rec, logger)

	result := engine.Extract(ctx, flag.Arg(0))
	if *name != "" || *dob != "" {
		result.Similarity = similarity.Score(*name, *dob, result.Name, result.DateOfBirth)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	if result.Error != "" {
		os.Exit(1)
	}
}

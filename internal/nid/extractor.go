// Package nid turns recognized text fragments from a national identity
// document into structured fields. The extraction engine is pure and
// stateless: one call, one input, one output, safe for concurrent use.
package nid

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/constants"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/recognize"
)

// Engine wires a recognition adapter to the field extraction rules. The
// recognizer is injected once at construction; the engine holds no other
// state.
type Engine struct {
	rec    recognize.Recognizer
	logger *slog.Logger
	tmpDir string
}

func NewEngine(rec recognize.Recognizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rec: rec, logger: logger, tmpDir: os.TempDir()}
}

// Extract recognizes text in the given input and extracts the NID fields.
// The input may be a file path, a decoded image.Image, or raw encoded image
// bytes. Extract never returns an error: every failure is encoded in the
// result's Error field with the other fields left empty.
func (e *Engine) Extract(ctx context.Context, input any) Result {
	path, cleanup, errMsg := e.resolveInput(input)
	if errMsg != "" {
		e.logger.Error("unusable extraction input", "reason", errMsg)
		return Result{Error: errMsg}
	}
	if cleanup != nil {
		defer cleanup()
	}

	e.logger.Info("starting recognition", "path", path)
	frags, err := e.rec.Recognize(ctx, path)
	if err != nil {
		e.logger.Error("recognition failed", "path", path, "error", err)
		return Result{Error: "OCR reading failed: " + err.Error()}
	}
	e.logger.Info("recognition completed", "path", path, "fragments", len(frags))
	return ExtractFields(frags)
}

// resolveInput maps the supported input kinds onto a file path the
// recognizer can consume. It returns a non-empty message on failure.
func (e *Engine) resolveInput(input any) (path string, cleanup func(), errMsg string) {
	switch v := input.(type) {
	case string:
		if _, err := os.Stat(v); err != nil {
			return "", nil, constants.ErrFileNotFound
		}
		return v, nil, ""
	case image.Image:
		var buf bytes.Buffer
		if err := png.Encode(&buf, v); err != nil {
			return "", nil, fmt.Sprintf("OCR reading failed: %v", err)
		}
		return e.spill(buf.Bytes())
	case []byte:
		if _, _, err := image.DecodeConfig(bytes.NewReader(v)); err != nil {
			return "", nil, constants.ErrUnsupportedImage
		}
		return e.spill(v)
	default:
		return "", nil, constants.ErrUnsupportedImage
	}
}

// spill writes in-memory image data to a temp file for the adapter call.
func (e *Engine) spill(data []byte) (string, func(), string) {
	f, err := os.CreateTemp(e.tmpDir, "nid-*.png")
	if err != nil {
		return "", nil, fmt.Sprintf("OCR reading failed: %v", err)
	}
	name := f.Name()
	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(name)
		return "", nil, fmt.Sprintf("OCR reading failed: %v", werr)
	}
	return name, func() { _ = os.Remove(name) }, ""
}

// ExtractFields joins the fragments into one flat text and runs the three
// rule pipelines over it independently. It never panics; an empty fragment
// sequence yields the no-text error with all fields empty.
func ExtractFields(fragments []recognize.Fragment) Result {
	var res Result
	if len(fragments) == 0 {
		slog.Warn("no text detected in the image")
		res.Error = constants.ErrNoTextDetected
		return res
	}

	texts := make([]string, 0, len(fragments))
	skipped := 0
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			skipped++
			continue
		}
		texts = append(texts, f.Text)
	}
	if skipped > 0 {
		slog.Debug("skipped blank fragments", "count", skipped)
	}
	if len(texts) == 0 {
		slog.Warn("no text detected in the image")
		res.Error = constants.ErrNoTextDetected
		return res
	}

	res.FullText = strings.TrimSpace(strings.Join(texts, " "))
	res.Name = extractName(res.FullText)
	res.DateOfBirth = extractDOB(res.FullText)
	res.IDNumber = extractID(res.FullText)

	slog.Debug("extraction completed",
		"name", res.Name, "dob", res.DateOfBirth, "id", res.IDNumber)
	return res
}

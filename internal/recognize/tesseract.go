package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// TesseractConfig configures the local tesseract adapter.
type TesseractConfig struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default
}

// Tesseract recognizes text by shelling out to the tesseract binary in TSV
// mode and grouping word rows into line fragments.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Tesseract{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (t *Tesseract) Recognize(ctx context.Context, path string) ([]Fragment, error) {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}

	frags, skipped := parseTSV(string(out))
	if skipped > 0 {
		t.logger.Warn("skipped malformed tsv rows", "path", path, "count", skipped)
	}
	t.logger.Debug("tesseract recognition done", "path", path, "fragments", len(frags))
	return frags, nil
}

// tsvLineKey identifies one physical text line in the TSV output.
type tsvLineKey struct {
	page, block, par, line int
}

// parseTSV turns tesseract TSV output into line-level fragments. Word rows
// (level 5) sharing a page/block/paragraph/line are joined with single
// spaces; the fragment box is the union of the word boxes and its confidence
// the mean word confidence scaled to 0..1. Rows that do not parse are
// dropped individually; the second return value is the drop count.
func parseTSV(out string) ([]Fragment, int) {
	lines := strings.Split(out, "\n")

	var frags []Fragment
	var skipped int
	index := map[tsvLineKey]int{}

	for i, ln := range lines {
		if i == 0 || strings.TrimSpace(ln) == "" {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 11 {
			skipped++
			continue
		}
		level, err := strconv.Atoi(cols[0])
		if err != nil {
			skipped++
			continue
		}
		if level != 5 {
			continue // page/block/par/line structure rows carry no text
		}
		if len(cols) < 12 {
			skipped++
			continue
		}

		ints := make([]int, 0, 9)
		ok := true
		for _, c := range cols[1:10] {
			v, err := strconv.Atoi(c)
			if err != nil {
				ok = false
				break
			}
			ints = append(ints, v)
		}
		conf, err := strconv.ParseFloat(cols[10], 32)
		if !ok || err != nil {
			skipped++
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" || conf < 0 {
			continue
		}

		key := tsvLineKey{page: ints[0], block: ints[1], par: ints[2], line: ints[3]}
		left, top, width, height := ints[5], ints[6], ints[7], ints[8]

		if at, seen := index[key]; seen {
			f := &frags[at]
			f.Text += " " + text
			f.Box = unionBox(f.Box, wordBox(left, top, width, height))
			// running mean keeps a single pass over the rows
			f.Confidence += (float32(conf/100.0) - f.Confidence) / float32(strings.Count(f.Text, " ")+1)
		} else {
			index[key] = len(frags)
			frags = append(frags, Fragment{
				Box:        wordBox(left, top, width, height),
				Text:       text,
				Confidence: float32(conf / 100.0),
			})
		}
	}
	return frags, skipped
}

func wordBox(left, top, width, height int) [4][2]int {
	return [4][2]int{
		{left, top},
		{left + width, top},
		{left + width, top + height},
		{left, top + height},
	}
}

func unionBox(a, b [4][2]int) [4][2]int {
	minX, minY := a[0][0], a[0][1]
	maxX, maxY := a[2][0], a[2][1]
	if b[0][0] < minX {
		minX = b[0][0]
	}
	if b[0][1] < minY {
		minY = b[0][1]
	}
	if b[2][0] > maxX {
		maxX = b[2][0]
	}
	if b[2][1] > maxY {
		maxY = b[2][1]
	}
	return wordBox(minX, minY, maxX-minX, maxY-minY)
}

package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// RemoteConfig configures the HTTP recognizer adapter.
type RemoteConfig struct {
	URL     string
	Token   string // optional bearer token for the recognizer service
	Timeout time.Duration
	Params  Params
}

// Remote posts the image plus decoder parameters to an external recognizer
// service and maps the JSON-schema-validated response into fragments.
type Remote struct {
	cfg    RemoteConfig
	client *http.Client
	logger *slog.Logger
}

func NewRemote(cfg RemoteConfig, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}
	return &Remote{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type remoteRequest struct {
	ImageB64          string  `json:"image_b64"`
	BeamWidth         int     `json:"beam_width"`
	ContrastThreshold float64 `json:"contrast_ths"`
	AdjustContrast    float64 `json:"adjust_contrast"`
	TextThreshold     float64 `json:"text_threshold"`
	LowText           float64 `json:"low_text"`
	LinkThreshold     float64 `json:"link_threshold"`
}

type remoteEntry struct {
	Box        [][]float64 `json:"box"`
	Text       string      `json:"text"`
	Confidence float32     `json:"confidence"`
}

type remoteResponse struct {
	Results []remoteEntry `json:"results"`
}

func (r *Remote) Recognize(ctx context.Context, path string) ([]Fragment, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	p := r.cfg.Params
	raw, err := r.sendJSON(ctx, remoteRequest{
		ImageB64:          base64.StdEncoding.EncodeToString(img),
		BeamWidth:         p.BeamWidth,
		ContrastThreshold: p.ContrastThreshold,
		AdjustContrast:    p.AdjustContrast,
		TextThreshold:     p.TextThreshold,
		LowText:           p.LowText,
		LinkThreshold:     p.LinkThreshold,
	})
	if err != nil {
		return nil, err
	}

	if err := ValidateAgainstSchema(BuildResultSchema(), raw); err != nil {
		return nil, fmt.Errorf("recognizer payload: %w", err)
	}
	var resp remoteResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode recognizer payload: %w", err)
	}

	frags := make([]Fragment, 0, len(resp.Results))
	skipped := 0
	for _, e := range resp.Results {
		if e.Text == "" {
			skipped++
			continue
		}
		f := Fragment{Text: e.Text, Confidence: e.Confidence}
		if len(e.Box) == 4 {
			for i, pt := range e.Box {
				if len(pt) == 2 {
					f.Box[i] = [2]int{int(pt[0]), int(pt[1])}
				}
			}
		}
		frags = append(frags, f)
	}
	if skipped > 0 {
		r.logger.Warn("skipped empty recognizer entries", "count", skipped)
	}
	return frags, nil
}

// sendJSON posts a JSON body to the configured recognizer URL and returns
// the raw response body.
func (r *Remote) sendJSON(ctx context.Context, body any) ([]byte, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	r.logger.Debug("recognizer.request", "req_id", reqID, "url", r.cfg.URL, "content_length", len(bs))

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("recognizer.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Warn("recognizer.body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	r.logger.Debug("recognizer.response", "req_id", reqID, "status", resp.StatusCode,
		"bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("recognizer returned status %d", resp.StatusCode)
	}
	return raw, nil
}

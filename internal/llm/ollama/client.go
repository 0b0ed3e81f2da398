// Package ollama is a FieldExtractor backed by a local Ollama server's /api/generate.
package ollama

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
)

type Config struct {
	URL            string // default http://localhost:11434
	Model          string // default llama3:instruct
	Temperature    float32
	Timeout        time.Duration
	MaxPromptChars int
	Retry          llm.RetryPolicy
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

var _ llm.FieldExtractor = (*Client)(nil)

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3:instruct"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.Retry == (llm.RetryPolicy{}) {
		cfg.Retry = llm.DefaultRetryPolicy
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}, log: logger}
}

func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.RawFieldMap, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()
	c.log.Info("llm.extract.start", "req_id", rid, "provider", "ollama", "model", c.cfg.Model, "text_len", len(req.Text))

	body := map[string]any{
		"model":  c.cfg.Model,
		"system": llm.BuildSystemPrompt(),
		"prompt": llm.BuildUserPrompt(req, c.cfg.MaxPromptChars),
		"format": "json",
		"stream": false,
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
		},
	}
	url := strings.TrimRight(c.cfg.URL, "/") + "/api/generate"

	raw, err := llm.WithRetry(ctx, c.cfg.Retry, c.cfg.Timeout, c.log, func(actx context.Context) ([]byte, error) {
		b, _, err := llm.SendJSON(actx, c.http, url, body, nil, c.log)
		return b, err
	})
	if err != nil {
		c.log.Error("llm.extract.http_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, common.OracleUnavailable("ollama request failed", err)
	}

	var gen struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		c.log.Error("llm.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return nil, raw, common.OracleMalformed("decode ollama response", err)
	}

	fields, err := llm.ParseRawFieldMap(gen.Response)
	if err != nil {
		c.log.Error("llm.extract.schema_validation_failed", "req_id", rid, "error", err, "content", gen.Response)
		return nil, []byte(gen.Response), err
	}
	c.log.Info("llm.extract.ok", "req_id", rid, "fields", len(fields), "elapsed_ms", time.Since(start).Milliseconds())
	return fields, []byte(gen.Response), nil
}

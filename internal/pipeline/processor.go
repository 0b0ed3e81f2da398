// Package pipeline runs one voucher through text acquisition, field extraction,
// normalization and rendering.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
	"github.com/joseph-ayodele/voucher-standardizer/internal/normalize"
	"github.com/joseph-ayodele/voucher-standardizer/internal/ocr"
	"github.com/joseph-ayodele/voucher-standardizer/internal/render"
)

// TextAcquirer is implemented by *ocr.Extractor.
type TextAcquirer interface {
	Acquire(ctx context.Context, data []byte) (ocr.ExtractionResult, error)
}

// Policy decides whether blocking issues stop rendering.
type Policy int

const (
	RequireComplete Policy = iota // blocking issues fail with ErrIncompleteRecord
	AllowIncomplete               // render whatever was found
)

// Result is what one run produced. On a fatal error it is the zero value; on
// ErrIncompleteRecord it carries everything up to the record and its issues.
type Result struct {
	RequestID  string
	Source     string
	Extraction ocr.ExtractionResult
	Raw        llm.RawFieldMap
	RawJSON    []byte
	Record     normalize.Record
	Issues     []normalize.Issue
	Payload    render.Payload
	PDF        []byte
}

// Processor holds read-only config and stateless collaborators; it is safe for
// concurrent use.
type Processor struct {
	Logger     *slog.Logger
	Text       TextAcquirer
	Fields     llm.FieldExtractor
	Normalizer *normalize.Normalizer
	Branding   render.Branding
	Renderer   render.Renderer
	Policy     Policy
}

func NewProcessor(logger *slog.Logger, text TextAcquirer, fields llm.FieldExtractor, norm *normalize.Normalizer, branding render.Branding, renderer render.Renderer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if norm == nil {
		norm = normalize.NewNormalizer(normalize.Options{})
	}
	return &Processor{
		Logger:     logger,
		Text:       text,
		Fields:     fields,
		Normalizer: norm,
		Branding:   branding,
		Renderer:   renderer,
	}
}

// AcquireText runs text acquisition only.
func (p *Processor) AcquireText(ctx context.Context, data []byte) (ocr.ExtractionResult, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	res, err := p.Text.Acquire(ctx, data)
	if err != nil {
		p.Logger.Error("pipeline.text.failed", "req_id", reqID, "source", common.SourceFromContext(ctx), "error", err)
		return ocr.ExtractionResult{}, err
	}
	if strings.TrimSpace(res.Text) == "" {
		err := common.UnreadablePDF("no text found in the document, even with OCR", nil)
		p.Logger.Error("pipeline.text.failed", "req_id", reqID, "source", common.SourceFromContext(ctx), "error", err)
		return ocr.ExtractionResult{}, err
	}
	return res, nil
}

// Extract runs acquisition, the oracle and the normalizer. No rendering.
func (p *Processor) Extract(ctx context.Context, data []byte) (Result, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	start := time.Now()
	source := common.SourceFromContext(ctx)

	text, err := p.AcquireText(ctx, data)
	if err != nil {
		return Result{}, err
	}

	raw, rawJSON, err := p.Fields.ExtractFields(ctx, llm.ExtractRequest{
		Text:         text.Text,
		FilenameHint: source,
		UsedOCR:      text.UsedOCR,
	})
	if err != nil {
		p.Logger.Error("pipeline.fields.failed", "req_id", reqID, "source", source, "error", err)
		return Result{}, err
	}

	res := p.normalize(ctx, raw)
	res.Source = source
	res.Extraction = text
	res.RawJSON = rawJSON

	p.Logger.Info("pipeline.extract.ok",
		"req_id", reqID,
		"source", source,
		"method", text.Method,
		"pages", text.PageCount,
		"used_ocr", text.UsedOCR,
		"raw_keys", len(raw),
		"issues", len(res.Issues),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Normalize runs only the normalizer, e.g. on reviewed fields loaded from disk.
func (p *Processor) Normalize(ctx context.Context, raw llm.RawFieldMap) Result {
	ctx, _ = common.EnsureRequestID(ctx)
	res := p.normalize(ctx, raw)
	res.Source = common.SourceFromContext(ctx)
	return res
}

func (p *Processor) normalize(ctx context.Context, raw llm.RawFieldMap) Result {
	rec, issues := p.Normalizer.Normalize(raw)
	for _, is := range issues {
		p.Logger.Debug("pipeline.issue",
			"req_id", common.RequestIDFromContext(ctx),
			"kind", is.Kind,
			"field", is.Field,
			"key", is.Key,
			"message", is.Message,
		)
	}
	return Result{
		RequestID: common.RequestIDFromContext(ctx),
		Raw:       raw,
		Record:    rec,
		Issues:    issues,
	}
}

// Render applies the policy, builds the payload and renders res.Record. With force the
// policy is skipped.
func (p *Processor) Render(ctx context.Context, res Result, force bool) (Result, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	if res.RequestID == "" {
		res.RequestID = reqID
	}

	if !force && p.Policy == RequireComplete {
		if blocking := normalize.BlockingIssues(res.Issues); len(blocking) > 0 {
			names := make([]string, len(blocking))
			for i, is := range blocking {
				names[i] = is.String()
			}
			p.Logger.Warn("pipeline.render.blocked", "req_id", reqID, "source", res.Source, "issues", len(blocking))
			return res, common.IncompleteRecord(strings.Join(names, "; "))
		}
	}

	payload, err := render.BuildPayload(res.Record, p.Branding)
	if err != nil {
		return Result{}, err
	}
	pdf, err := p.Renderer.Render(ctx, payload)
	if err != nil {
		p.Logger.Error("pipeline.render.failed", "req_id", reqID, "source", res.Source, "error", err)
		return Result{}, err
	}
	res.Payload = payload
	res.PDF = pdf
	return res, nil
}

// Process runs the whole pipeline for one PDF.
func (p *Processor) Process(ctx context.Context, data []byte, force bool) (Result, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	start := time.Now()

	res, err := p.Extract(ctx, data)
	if err != nil {
		return Result{}, err
	}
	res, err = p.Render(ctx, res, force)
	if err != nil {
		return res, err
	}

	p.Logger.Info("pipeline.process.ok",
		"req_id", reqID,
		"source", res.Source,
		"issues", len(res.Issues),
		"pdf_bytes", len(res.PDF),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

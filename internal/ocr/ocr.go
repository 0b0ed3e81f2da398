// Package ocr acquires the text of a voucher PDF: the embedded text layer where it is
// usable, OCR for pages where it is not.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/internal/command"
)

// Page text sources.
const (
	MethodText  = "pdf-text"
	MethodOCR   = "pdf-ocr"
	MethodMixed = "mixed"
)

// PageSeparator joins page texts in ExtractionResult.Text.
const PageSeparator = "\n\f\n"

type Config struct {
	Backend      string // "native" (go-fitz + gosseract) | "exec" (pdftoppm + tesseract)
	Lang         string // default "eng"
	DPI          int    // rasterization DPI for OCR, default 300
	MinPageChars int    // pages with fewer non-space chars are OCR'd, default 40
	MaxPages     int    // max pages to OCR, 0 = no limit
	TessdataDir  string
	Pdftoppm     string
	Tesseract    string
}

// PageText is the acquired text of one page.
type PageText struct {
	Number  int
	Text    string
	Method  string
	Warning string
}

// ExtractionResult is the raw text of a voucher plus diagnostics.
type ExtractionResult struct {
	Text      string
	UsedOCR   bool
	PageCount int
	Pages     []PageText
	Method    string
	Warnings  []string
	Duration  time.Duration
}

type Extractor struct {
	cfg        Config
	pages      PageReader
	rasterizer Rasterizer
	recognizer Recognizer
	logger     *slog.Logger
}

type Option func(*Extractor)

// WithPageReader replaces the pdfcpu/ledongthuc text layer reader.
func WithPageReader(r PageReader) Option { return func(e *Extractor) { e.pages = r } }

func WithRasterizer(r Rasterizer) Option { return func(e *Extractor) { e.rasterizer = r } }

func WithRecognizer(r Recognizer) Option { return func(e *Extractor) { e.recognizer = r } }

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinPageChars <= 0 {
		cfg.MinPageChars = 40
	}
	e := &Extractor{cfg: cfg, pages: pdfPageReader{}, logger: logger}

	runner := command.NewExecRunner(logger)
	switch cfg.Backend {
	case "exec":
		e.rasterizer = PdftoppmRasterizer{Bin: cfg.Pdftoppm, DPI: cfg.DPI, Runner: runner, Logger: logger}
		e.recognizer = TesseractCLI{Bin: cfg.Tesseract, Lang: cfg.Lang, TessdataDir: cfg.TessdataDir, Runner: runner}
	default:
		e.rasterizer = FitzRasterizer{DPI: cfg.DPI}
		e.recognizer = GosseractRecognizer{Lang: cfg.Lang, TessdataDir: cfg.TessdataDir}
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Acquire returns the text of a PDF. Pages whose text layer has fewer than
// MinPageChars significant characters are rasterized and OCR'd; if that fails the
// text layer is kept and a warning recorded. Only unreadable input is an error.
func (e *Extractor) Acquire(ctx context.Context, data []byte) (ExtractionResult, error) {
	start := time.Now()
	e.logger.Debug("ocr.acquire.start", "bytes", len(data), "backend", e.cfg.Backend)

	direct, warnings, err := e.pages.ReadPages(ctx, data)
	if err != nil {
		e.logger.Error("ocr.acquire.unreadable", "error", err)
		return ExtractionResult{}, err
	}

	pages := make([]PageText, len(direct))
	var needOCR []int
	for i, txt := range direct {
		pages[i] = PageText{Number: i + 1, Text: Normalize(txt), Method: MethodText}
		if significantChars(pages[i].Text) < e.cfg.MinPageChars {
			needOCR = append(needOCR, i)
		}
	}

	if e.cfg.MaxPages > 0 && len(needOCR) > e.cfg.MaxPages {
		for _, i := range needOCR[e.cfg.MaxPages:] {
			pages[i].Warning = "ocr skipped: page limit reached"
			warnings = append(warnings, fmt.Sprintf("page %d: %s", i+1, pages[i].Warning))
		}
		needOCR = needOCR[:e.cfg.MaxPages]
	}

	if len(needOCR) > 0 {
		w, err := e.ocrPages(ctx, data, pages, needOCR)
		warnings = append(warnings, w...)
		if err != nil {
			return ExtractionResult{}, err
		}
	}

	res := assemble(pages)
	res.Warnings = warnings
	res.Duration = time.Since(start)

	e.logger.Info("ocr.acquire.ok",
		"pages", res.PageCount,
		"ocr_pages", countMethod(pages, MethodOCR),
		"method", res.Method,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// ocrPages replaces the text of the given page indexes with OCR output. Only context
// cancellation aborts; any other failure leaves the page's text layer in place.
func (e *Extractor) ocrPages(ctx context.Context, data []byte, pages []PageText, idx []int) ([]string, error) {
	var warnings []string

	doc, err := e.rasterizer.Open(ctx, data)
	if err != nil {
		msg := fmt.Sprintf("ocr unavailable: %v", err)
		e.logger.Warn("ocr.rasterize.open_failed", "error", err)
		for _, i := range idx {
			pages[i].Warning = msg
		}
		return append(warnings, msg), nil
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			e.logger.Warn("ocr.rasterize.close_failed", "error", cerr)
		}
	}()

	for _, i := range idx {
		if err := ctx.Err(); err != nil {
			return warnings, fmt.Errorf("ocr cancelled: %w", err)
		}
		n := pages[i].Number

		png, err := doc.RenderPage(ctx, n)
		if err == nil {
			var txt string
			txt, err = e.recognizer.Recognize(ctx, png)
			if err == nil {
				txt = Normalize(txt)
				if txt != "" {
					pages[i].Text = txt
					pages[i].Method = MethodOCR
					continue
				}
				err = fmt.Errorf("no text recognized")
			}
		}
		if ctx.Err() != nil {
			return warnings, fmt.Errorf("ocr cancelled: %w", ctx.Err())
		}
		pages[i].Warning = err.Error()
		warnings = append(warnings, fmt.Sprintf("page %d: ocr failed: %v", n, err))
		e.logger.Warn("ocr.page.failed", "page", n, "error", err)
	}
	return warnings, nil
}

func assemble(pages []PageText) ExtractionResult {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	ocrCount := countMethod(pages, MethodOCR)

	method := MethodText
	switch {
	case ocrCount == len(pages) && ocrCount > 0:
		method = MethodOCR
	case ocrCount > 0:
		method = MethodMixed
	}

	return ExtractionResult{
		Text:      strings.Join(parts, PageSeparator),
		UsedOCR:   ocrCount > 0,
		PageCount: len(pages),
		Pages:     pages,
		Method:    method,
	}
}

func countMethod(pages []PageText, method string) int {
	n := 0
	for _, p := range pages {
		if p.Method == method {
			n++
		}
	}
	return n
}

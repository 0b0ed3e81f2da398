package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/voucher-standardizer/internal/command"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm/ollama"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm/openai"
	"github.com/joseph-ayodele/voucher-standardizer/internal/normalize"
	"github.com/joseph-ayodele/voucher-standardizer/internal/ocr"
	"github.com/joseph-ayodele/voucher-standardizer/internal/pipeline"
	"github.com/joseph-ayodele/voucher-standardizer/internal/render"
)

type app struct {
	cfg    *common.Config
	logger *slog.Logger
}

// wiring selects which collaborators a command needs.
type wiring struct {
	oracle bool
	render bool
}

type built struct {
	proc *pipeline.Processor
	html *render.HTMLTemplate
}

func (a *app) build(w wiring) (*built, error) {
	cfg := a.cfg
	if w.oracle {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	text := ocr.NewExtractor(ocr.Config{
		Backend:      cfg.OCR.Backend,
		Lang:         cfg.OCR.Lang,
		DPI:          cfg.OCR.DPI,
		MinPageChars: cfg.OCR.MinPageChars,
		MaxPages:     cfg.OCR.MaxPages,
		TessdataDir:  cfg.OCR.TessdataDir,
		Pdftoppm:     cfg.OCR.Pdftoppm,
		Tesseract:    cfg.OCR.Tesseract,
	}, a.logger)

	var fields llm.FieldExtractor
	if w.oracle {
		fields = a.newFieldExtractor()
	}

	out := &built{}
	var branding render.Branding
	var renderer render.Renderer
	if w.render {
		b, err := render.LoadBranding(cfg.Branding)
		if err != nil {
			return nil, err
		}
		html, err := render.NewHTMLTemplate(cfg.Render.TemplatePath)
		if err != nil {
			return nil, err
		}
		branding = b
		out.html = html
		renderer = render.NewCommandPDF(html, cfg.Render.Renderer, cfg.Render.Timeout, command.NewExecRunner(a.logger), a.logger)
	}

	norm := normalize.NewNormalizer(normalize.Options{DayFirst: cfg.Pipeline.DayFirst})
	out.proc = pipeline.NewProcessor(a.logger, text, fields, norm, branding, renderer)
	return out, nil
}

func (a *app) newFieldExtractor() llm.FieldExtractor {
	cfg := a.cfg.LLM
	if cfg.Provider == "ollama" {
		return ollama.NewClient(ollama.Config{
			URL:            cfg.OllamaURL,
			Model:          cfg.OllamaModel,
			Temperature:    cfg.Temperature,
			Timeout:        cfg.Timeout,
			MaxPromptChars: cfg.MaxPromptChars,
		}, a.logger)
	}
	return openai.NewClient(openai.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Temperature:    cfg.Temperature,
		Timeout:        cfg.Timeout,
		MaxPromptChars: cfg.MaxPromptChars,
	}, a.logger)
}

// readInput reads a PDF named on the command line and tags ctx with its name.
func readInput(ctx context.Context, path string) (context.Context, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ctx, nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("read %s", path), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	return common.WithSource(ctx, filepath.Base(path)), data, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

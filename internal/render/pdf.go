package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
	"github.com/joseph-ayodele/voucher-standardizer/internal/command"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

// Renderer turns a payload into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, p Payload) ([]byte, error)
}

// CommandPDF pipes the template's HTML through an HTML-to-PDF binary on stdin/stdout.
type CommandPDF struct {
	HTML    *HTMLTemplate
	Bin     string
	Args    []string
	Timeout time.Duration
	Runner  command.Runner
	Logger  *slog.Logger
}

// NewCommandPDF builds a renderer for bin, picking stdin/stdout arguments for the
// renderers we know.
func NewCommandPDF(html *HTMLTemplate, bin string, timeout time.Duration, runner command.Runner, logger *slog.Logger) *CommandPDF {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = command.NewExecRunner(logger)
	}
	return &CommandPDF{
		HTML:    html,
		Bin:     bin,
		Args:    rendererArgs(bin),
		Timeout: timeout,
		Runner:  runner,
		Logger:  logger,
	}
}

func rendererArgs(bin string) []string {
	switch strings.TrimSuffix(filepath.Base(bin), ".exe") {
	case "wkhtmltopdf":
		return []string{"--quiet", "--encoding", "utf-8", "-", "-"}
	default: // weasyprint
		return []string{"--encoding", "utf-8", "-", "-"}
	}
}

func (r *CommandPDF) Render(ctx context.Context, p Payload) ([]byte, error) {
	start := time.Now()
	html, err := r.HTML.Execute(p)
	if err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	out, stderr, err := r.Runner.Run(ctx, bytes.NewReader(html), r.Bin, r.Args...)
	if err != nil {
		msg := strings.TrimSpace(command.Truncate(string(stderr), 512))
		if msg == "" {
			msg = r.Bin + " failed"
		}
		return nil, common.RenderFailed(msg, err)
	}
	if !bytes.HasPrefix(out, []byte(constants.PDFMagic)) {
		return nil, common.RenderFailed(r.Bin+" did not produce a PDF", nil)
	}

	pages, err := pageCount(out)
	if err != nil {
		r.Logger.Warn("render.pdf.unparsed", "req_id", common.RequestIDFromContext(ctx), "error", err)
	}

	r.Logger.Info("render.pdf.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"renderer", r.Bin,
		"template", r.HTML.Name(),
		"pages", pages,
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func pageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, err
	}
	return pctx.PageCount, nil
}

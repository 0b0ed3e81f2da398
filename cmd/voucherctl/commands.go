package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
	"github.com/joseph-ayodele/voucher-standardizer/internal/normalize"
	"github.com/joseph-ayodele/voucher-standardizer/internal/pipeline"
	"github.com/joseph-ayodele/voucher-standardizer/internal/review"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func (a *app) runText(ctx context.Context, args []string) int {
	fs := newFlagSet("text")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		printError("usage: voucherctl text <file.pdf>\n")
		return exitUsage
	}
	b, err := a.build(wiring{})
	if err != nil {
		return fail(a.logger, "text.setup.failed", err)
	}
	ctx, data, err := readInput(ctx, fs.Arg(0))
	if err != nil {
		return fail(a.logger, "text.read.failed", err)
	}
	ctx, cancel := common.WithTimeout(ctx, a.cfg.Pipeline.RequestTimeout)
	defer cancel()

	res, err := b.proc.AcquireText(ctx, data)
	if err != nil {
		return fail(a.logger, "text.failed", err)
	}
	for _, w := range res.Warnings {
		printError("warning: %s\n", w)
	}
	a.logger.Info("text.ok", "method", res.Method, "pages", res.PageCount, "used_ocr", res.UsedOCR, "elapsed_ms", res.Duration.Milliseconds())
	fmt.Println(res.Text)
	return exitOK
}

type fieldsOutput struct {
	RequestID string            `json:"request_id"`
	Source    string            `json:"source"`
	Method    string            `json:"method,omitempty"`
	Pages     int               `json:"pages,omitempty"`
	UsedOCR   bool              `json:"used_ocr"`
	Warnings  []string          `json:"warnings,omitempty"`
	Raw       llm.RawFieldMap   `json:"raw"`
	Record    normalize.Record  `json:"record"`
	Issues    []normalize.Issue `json:"issues"`
	Blocking  bool              `json:"blocking"`
}

func newFieldsOutput(res pipeline.Result) fieldsOutput {
	issues := res.Issues
	if issues == nil {
		issues = []normalize.Issue{}
	}
	raw := res.Raw
	if raw == nil {
		raw = llm.RawFieldMap{}
	}
	return fieldsOutput{
		RequestID: res.RequestID,
		Source:    res.Source,
		Method:    res.Extraction.Method,
		Pages:     res.Extraction.PageCount,
		UsedOCR:   res.Extraction.UsedOCR,
		Warnings:  res.Extraction.Warnings,
		Raw:       raw,
		Record:    res.Record,
		Issues:    issues,
		Blocking:  normalize.Blocking(res.Issues),
	}
}

func (a *app) runFields(ctx context.Context, args []string) int {
	fs := newFlagSet("fields")
	reviewOut := fs.String("review", "", "also write an XLSX review workbook to this path")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		printError("usage: voucherctl fields [-review out.xlsx] <file.pdf>\n")
		return exitUsage
	}
	b, err := a.build(wiring{oracle: true})
	if err != nil {
		return fail(a.logger, "fields.setup.failed", err)
	}
	ctx, data, err := readInput(ctx, fs.Arg(0))
	if err != nil {
		return fail(a.logger, "fields.read.failed", err)
	}
	ctx, cancel := common.WithTimeout(ctx, a.cfg.Pipeline.RequestTimeout)
	defer cancel()

	res, err := b.proc.Extract(ctx, data)
	if err != nil {
		return fail(a.logger, "fields.failed", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newFieldsOutput(res)); err != nil {
		return fail(a.logger, "fields.encode.failed", err)
	}

	if *reviewOut != "" {
		xlsx, err := review.NewService(a.logger).ExportXLSX(ctx, review.Input{
			Source: res.Source, Raw: res.Raw, Record: res.Record, Issues: res.Issues,
		})
		if err == nil {
			err = writeOutput(*reviewOut, xlsx)
		}
		if err != nil {
			return fail(a.logger, "fields.review.failed", err)
		}
		printError("review workbook written to %s\n", *reviewOut)
	}
	return exitOK
}

// defaultOutputName names a rendered voucher after the time it was made.
func defaultOutputName(now time.Time) string {
	return fmt.Sprintf("standardized_voucher_%s.pdf", now.Format("20060102_150405"))
}

// loadRawFields reads a field map saved by "voucherctl fields" (its "raw" member) or a
// plain JSON object of fields.
func loadRawFields(path string) (llm.RawFieldMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Raw json.RawMessage `json:"raw"`
	}
	if json.Unmarshal(b, &wrapped) == nil && len(wrapped.Raw) > 0 && wrapped.Raw[0] == '{' {
		b = wrapped.Raw
	}
	if err := llm.ValidateRawFieldMap(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var raw llm.RawFieldMap
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

func (a *app) runRender(ctx context.Context, args []string) int {
	fs := newFlagSet("render")
	out := fs.String("o", "", "output PDF path (default standardized_voucher_YYYYMMDD_HHMMSS.pdf)")
	fieldsPath := fs.String("fields", "", "render from a reviewed field map (JSON) instead of a PDF")
	force := fs.Bool("force", false, "render even when required fields are missing or inconsistent")
	htmlOut := fs.String("html", "", "also write the voucher HTML to this path")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if (*fieldsPath == "") == (fs.NArg() != 1) || fs.NArg() > 1 {
		printError("usage: voucherctl render [-o out.pdf] [-force] [-html out.html] (-fields raw.json | <file.pdf>)\n")
		return exitUsage
	}

	b, err := a.build(wiring{oracle: *fieldsPath == "", render: true})
	if err != nil {
		return fail(a.logger, "render.setup.failed", err)
	}
	ctx, cancel := common.WithTimeout(ctx, a.cfg.Pipeline.RequestTimeout)
	defer cancel()

	var res pipeline.Result
	if *fieldsPath != "" {
		raw, err := loadRawFields(*fieldsPath)
		if err != nil {
			return fail(a.logger, "render.fields.failed", common.WrapError(fmt.Errorf("%w: %w", common.ErrInvalidInput, err), "load fields"))
		}
		res = b.proc.Normalize(common.WithSource(ctx, filepath.Base(*fieldsPath)), raw)
	} else {
		var data []byte
		ctx, data, err = readInput(ctx, fs.Arg(0))
		if err != nil {
			return fail(a.logger, "render.read.failed", err)
		}
		if res, err = b.proc.Extract(ctx, data); err != nil {
			return fail(a.logger, "render.extract.failed", err)
		}
	}

	res, err = b.proc.Render(ctx, res, *force)
	for _, is := range res.Issues {
		printError("issue: %s\n", is)
	}
	if err != nil {
		if errors.Is(err, common.ErrIncompleteRecord) {
			printError("use -force to render anyway\n")
		}
		return fail(a.logger, "render.failed", err)
	}

	if *htmlOut != "" {
		html, err := b.html.Execute(res.Payload)
		if err == nil {
			err = writeOutput(*htmlOut, html)
		}
		if err != nil {
			return fail(a.logger, "render.html.failed", err)
		}
	}

	path := *out
	if path == "" {
		path = defaultOutputName(time.Now())
	}
	if err := writeOutput(path, res.PDF); err != nil {
		return fail(a.logger, "render.write.failed", err)
	}
	a.logger.Info("render.ok", "req_id", res.RequestID, "source", res.Source, "out", path, "bytes", len(res.PDF))
	fmt.Println(path)
	return exitOK
}

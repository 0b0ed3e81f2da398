package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageReader validates a PDF and returns the direct text layer of every page.
// The slice length is the page count. Errors mean the bytes are not a usable PDF.
type PageReader interface {
	ReadPages(ctx context.Context, data []byte) ([]string, []string, error)
}

// pdfPageReader validates with pdfcpu and reads text with ledongthuc/pdf.
type pdfPageReader struct{}

func (pdfPageReader) ReadPages(ctx context.Context, data []byte) ([]string, []string, error) {
	if len(data) == 0 {
		return nil, nil, common.UnreadablePDF("empty input", nil)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte(constants.PDFMagic)) {
		return nil, nil, common.UnreadablePDF("missing %PDF- header", nil)
	}

	pageCount, warn, err := validateContainer(data)
	if err != nil {
		return nil, nil, common.UnreadablePDF("pdf container is invalid", err)
	}
	if pageCount == 0 {
		return nil, nil, common.UnreadablePDF("pdf has no pages", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	pages, layerWarn := readTextLayer(data, pageCount)
	return pages, append(warn, layerWarn...), nil
}

// validatePDF is the strict structural check run after a successful parse.
var validatePDF = api.ValidateContext

// validateContainer parses and validates the PDF structure and returns its page count.
// A file that parses but fails validation is kept with a warning; its pages still go
// through the text layer and OCR.
func validateContainer(data []byte) (pageCount int, warnings []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, nil, fmt.Errorf("read: %w", err)
	}
	if err := validatePDF(pctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("pdf validation: %v", err))
		if err := pctx.EnsurePageCount(); err != nil {
			return 0, nil, fmt.Errorf("page count: %w", err)
		}
	}
	return pctx.PageCount, warnings, nil
}

// readTextLayer extracts plain text page by page. A page that cannot be decoded yields
// "" and a warning so that it falls through to OCR.
func readTextLayer(data []byte, pageCount int) (pages []string, warnings []string) {
	pages = make([]string, pageCount)

	r, err := openTextReader(data)
	if err != nil {
		return pages, []string{fmt.Sprintf("text layer unavailable: %v", err)}
	}

	n := r.NumPage()
	if n != pageCount {
		warnings = append(warnings, fmt.Sprintf("text layer reports %d pages, container %d", n, pageCount))
	}
	for i := 1; i <= n && i <= pageCount; i++ {
		txt, err := pageText(r, i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: text layer: %v", i, err))
			continue
		}
		pages[i-1] = txt
	}
	return pages, warnings
}

func openTextReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageText(r *pdf.Reader, i int) (txt string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	txt, err = p.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(txt), nil
}

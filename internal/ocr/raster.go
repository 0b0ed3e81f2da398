package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gen2brain/go-fitz"
	"github.com/joseph-ayodele/voucher-standardizer/internal/command"
)

// Rasterizer opens a PDF for page rendering.
type Rasterizer interface {
	Open(ctx context.Context, data []byte) (RasterDoc, error)
}

// RasterDoc renders pages (1-based) of an opened PDF to PNG. Close releases all
// resources, including temp files.
type RasterDoc interface {
	RenderPage(ctx context.Context, page int) ([]byte, error)
	Close() error
}

// FitzRasterizer renders in process with MuPDF.
type FitzRasterizer struct {
	DPI int
}

func (r FitzRasterizer) Open(_ context.Context, data []byte) (RasterDoc, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("fitz open: %w", err)
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = 300
	}
	return &fitzDoc{doc: doc, dpi: float64(dpi)}, nil
}

type fitzDoc struct {
	doc *fitz.Document
	dpi float64
}

func (d *fitzDoc) RenderPage(ctx context.Context, page int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || page > d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	png, err := d.doc.ImagePNG(page-1, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("fitz render page %d: %w", page, err)
	}
	return png, nil
}

func (d *fitzDoc) Close() error { return d.doc.Close() }

// PdftoppmRasterizer shells out to poppler's pdftoppm.
type PdftoppmRasterizer struct {
	Bin    string
	DPI    int
	Runner command.Runner
	Logger *slog.Logger
}

func (r PdftoppmRasterizer) Open(_ context.Context, data []byte) (RasterDoc, error) {
	tmpDir, err := os.MkdirTemp("", "vs-pp-*")
	if err != nil {
		return nil, err
	}
	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bin := r.Bin
	if bin == "" {
		bin = "pdftoppm"
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = 300
	}
	return &pdftoppmDoc{bin: bin, dpi: dpi, runner: r.Runner, dir: tmpDir, in: in, logger: logger}, nil
}

type pdftoppmDoc struct {
	bin    string
	dpi    int
	runner command.Runner
	dir    string
	in     string
	logger *slog.Logger
}

func (d *pdftoppmDoc) RenderPage(ctx context.Context, page int) ([]byte, error) {
	prefix := filepath.Join(d.dir, "page-"+strconv.Itoa(page))
	n := strconv.Itoa(page)
	// pdftoppm -r 300 -png -f N -l N -singlefile <in.pdf> <tmp/page-N>
	_, errb, err := d.runner.Run(ctx, nil, d.bin, "-r", strconv.Itoa(d.dpi), "-png", "-f", n, "-l", n, "-singlefile", d.in, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, command.Truncate(string(errb), 512))
	}
	png, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no image for page %d: %w", page, err)
	}
	return png, nil
}

func (d *pdftoppmDoc) Close() error {
	if err := os.RemoveAll(d.dir); err != nil {
		d.logger.Warn("ocr.tempdir.cleanup_failed", "dir", d.dir, "error", err)
		return err
	}
	return nil
}

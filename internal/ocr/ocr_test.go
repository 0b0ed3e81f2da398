package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

type fakePages struct {
	pages []string
	err   error
}

func (f fakePages) ReadPages(context.Context, []byte) ([]string, []string, error) {
	return f.pages, nil, f.err
}

type fakeRasterizer struct {
	openErr  error
	pageErr  map[int]error
	rendered []int
	closed   bool
}

func (f *fakeRasterizer) Open(context.Context, []byte) (RasterDoc, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f, nil
}

func (f *fakeRasterizer) RenderPage(_ context.Context, page int) ([]byte, error) {
	f.rendered = append(f.rendered, page)
	if err := f.pageErr[page]; err != nil {
		return nil, err
	}
	return []byte{byte(page)}, nil
}

func (f *fakeRasterizer) Close() error {
	f.closed = true
	return nil
}

type fakeRecognizer struct {
	text map[byte]string
	err  error
}

func (f fakeRecognizer) Recognize(_ context.Context, png []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text[png[0]], nil
}

const longPage = "Hotel Confirmation Voucher for Grand Hotel, Guest J. Smith, Check-in 2024-03-10"

func TestAcquireTextLayerOnly(t *testing.T) {
	ras := &fakeRasterizer{}
	e := NewExtractor(Config{}, nil,
		WithPageReader(fakePages{pages: []string{longPage, longPage}}),
		WithRasterizer(ras),
		WithRecognizer(fakeRecognizer{}),
	)

	res, err := e.Acquire(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.UsedOCR {
		t.Fatalf("UsedOCR = true for text pages")
	}
	if res.PageCount != 2 || res.Method != MethodText {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Text != longPage+PageSeparator+longPage {
		t.Fatalf("Text = %q", res.Text)
	}
	if len(ras.rendered) != 0 {
		t.Fatalf("rasterizer used for text pages: %v", ras.rendered)
	}
}

func TestAcquireOCRsSparsePagesOnly(t *testing.T) {
	ras := &fakeRasterizer{}
	e := NewExtractor(Config{MinPageChars: 40}, nil,
		WithPageReader(fakePages{pages: []string{longPage, "  ", "Page 3"}}),
		WithRasterizer(ras),
		WithRecognizer(fakeRecognizer{text: map[byte]string{2: "scanned page two", 3: "scanned page three"}}),
	)

	res, err := e.Acquire(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !res.UsedOCR || res.Method != MethodMixed {
		t.Fatalf("expected mixed OCR result, got %+v", res)
	}
	if got := ras.rendered; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("rendered pages = %v, want [2 3]", got)
	}
	if !ras.closed {
		t.Fatalf("raster doc not closed")
	}
	want := strings.Join([]string{longPage, "scanned page two", "scanned page three"}, PageSeparator)
	if res.Text != want {
		t.Fatalf("Text = %q, want %q", res.Text, want)
	}
}

func TestAcquireKeepsTextLayerWhenOCRFails(t *testing.T) {
	e := NewExtractor(Config{}, nil,
		WithPageReader(fakePages{pages: []string{"short"}}),
		WithRasterizer(&fakeRasterizer{}),
		WithRecognizer(fakeRecognizer{err: errors.New("tesseract missing")}),
	)

	res, err := e.Acquire(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.UsedOCR {
		t.Fatalf("UsedOCR should be false when OCR failed")
	}
	if res.Text != "short" {
		t.Fatalf("Text = %q", res.Text)
	}
	if len(res.Warnings) != 1 || res.Pages[0].Warning == "" {
		t.Fatalf("expected a warning, got %+v", res)
	}
}

func TestAcquireRasterizerUnavailable(t *testing.T) {
	e := NewExtractor(Config{}, nil,
		WithPageReader(fakePages{pages: []string{"", ""}}),
		WithRasterizer(&fakeRasterizer{openErr: errors.New("no mupdf")}),
		WithRecognizer(fakeRecognizer{}),
	)
	res, err := e.Acquire(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.UsedOCR || res.PageCount != 2 || len(res.Warnings) == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAcquireMaxPages(t *testing.T) {
	ras := &fakeRasterizer{}
	e := NewExtractor(Config{MaxPages: 1}, nil,
		WithPageReader(fakePages{pages: []string{"", "", ""}}),
		WithRasterizer(ras),
		WithRecognizer(fakeRecognizer{text: map[byte]string{1: "one", 2: "two", 3: "three"}}),
	)
	res, err := e.Acquire(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if len(ras.rendered) != 1 {
		t.Fatalf("rendered %v, want one page", ras.rendered)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestAcquireCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExtractor(Config{}, nil,
		WithPageReader(fakePages{pages: []string{""}}),
		WithRasterizer(&fakeRasterizer{}),
		WithRecognizer(fakeRecognizer{}),
	)
	if _, err := e.Acquire(ctx, []byte("%PDF-1.7")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAcquireRejectsUnreadableInput(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	cases := map[string][]byte{
		"empty":     nil,
		"no header": []byte("this is a word document"),
		"garbage":   []byte("%PDF-1.4\nnot really a pdf at all\n"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := e.Acquire(context.Background(), data)
			if !errors.Is(err, common.ErrUnreadablePDF) {
				t.Fatalf("err = %v, want ErrUnreadablePDF", err)
			}
			if res.Text != "" || res.PageCount != 0 {
				t.Fatalf("expected zero result, got %+v", res)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	in := "Hotel:\t Grand  Hotel \r\n-----\r\n\r\n\r\n\r\nGuest: J. Smith   \n"
	want := "Hotel: Grand Hotel\n\nGuest: J. Smith"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
	if got := Normalize("Room 03/10"); got != "Room 03/10" {
		t.Fatalf("digits altered: %q", got)
	}
}

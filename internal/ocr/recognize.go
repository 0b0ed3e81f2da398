package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/internal/command"
	"github.com/otiai10/gosseract/v2"
)

// Recognizer turns a page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// GosseractRecognizer runs Tesseract in process. A fresh client is used per page.
type GosseractRecognizer struct {
	Lang        string
	TessdataDir string
}

func (g GosseractRecognizer) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := gosseract.NewClient()
	defer c.Close()

	if g.TessdataDir != "" {
		if err := c.SetTessdataPrefix(g.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata: %w", err)
		}
	}
	if g.Lang != "" {
		if err := c.SetLanguage(strings.Split(g.Lang, "+")...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// TesseractCLI pipes the page image into the tesseract binary.
type TesseractCLI struct {
	Bin         string
	Lang        string
	TessdataDir string
	Runner      command.Runner
}

func (t TesseractCLI) Recognize(ctx context.Context, png []byte) (string, error) {
	bin := t.Bin
	if bin == "" {
		bin = "tesseract"
	}
	lang := t.Lang
	if lang == "" {
		lang = "eng"
	}
	// tesseract stdin stdout -l <lang>
	args := []string{"stdin", "stdout", "-l", lang}
	if t.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.TessdataDir)
	}
	out, errb, err := t.Runner.Run(ctx, bytes.NewReader(png), bin, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, command.Truncate(string(errb), 512))
	}
	return string(out), nil
}

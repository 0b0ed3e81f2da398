package main

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/voucher-standardizer/internal/command"
	"github.com/joseph-ayodele/voucher-standardizer/internal/render"
)

type check struct {
	name   string
	ok     bool
	detail string
}

// runStatus reports whether everything a render needs is in place.
func (a *app) runStatus(_ context.Context, _ []string) int {
	cfg := a.cfg
	var checks []check

	if err := cfg.Validate(); err != nil {
		checks = append(checks, check{"config", false, err.Error()})
	} else {
		checks = append(checks, check{"config", true, fmt.Sprintf("provider %s", cfg.LLM.Provider)})
	}

	if b, err := render.LoadBranding(cfg.Branding); err != nil {
		checks = append(checks, check{"branding", false, err.Error()})
	} else {
		checks = append(checks, check{"branding", true, fmt.Sprintf("%s, logo %s", b.CompanyName, b.LogoPath)})
	}

	if t, err := render.NewHTMLTemplate(cfg.Render.TemplatePath); err != nil {
		checks = append(checks, check{"template", false, err.Error()})
	} else {
		checks = append(checks, check{"template", true, t.Name()})
	}

	checks = append(checks, binCheck("renderer", cfg.Render.Renderer))
	if cfg.OCR.Backend == "exec" {
		checks = append(checks, binCheck("pdftoppm", cfg.OCR.Pdftoppm), binCheck("tesseract", cfg.OCR.Tesseract))
	} else {
		checks = append(checks, check{"ocr", true, "native (go-fitz + gosseract), lang " + cfg.OCR.Lang})
	}

	code := exitOK
	for _, c := range checks {
		mark := "ok  "
		if !c.ok {
			mark = "FAIL"
			code = exitFail
		}
		fmt.Printf("%s %-9s %s\n", mark, c.name, c.detail)
	}
	return code
}

func binCheck(name, bin string) check {
	if p, ok := command.LookPath(bin); ok {
		return check{name, true, p}
	}
	return check{name, false, bin + " not found in PATH"}
}

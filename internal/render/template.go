package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

//go:embed templates/voucher_template.html
var defaultTemplate string

// HTMLTemplate executes the voucher template against a Payload.
type HTMLTemplate struct {
	tmpl *template.Template
	name string
}

var funcs = template.FuncMap{
	// safeURL lets the inlined logo through html/template's URL filter. Only image
	// data URIs are trusted.
	"safeURL": func(v any) template.URL {
		s, _ := v.(string)
		if strings.HasPrefix(s, "data:image/") {
			return template.URL(s)
		}
		return ""
	},
}

// NewHTMLTemplate parses the template at path, or the embedded template when path is "".
func NewHTMLTemplate(path string) (*HTMLTemplate, error) {
	src, name := defaultTemplate, "voucher_template.html"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, common.RenderFailed("read template "+path, err)
		}
		src, name = string(b), path
	}
	t, err := template.New("voucher").Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, common.RenderFailed("parse template "+name, err)
	}
	return &HTMLTemplate{tmpl: t, name: name}, nil
}

// Name is the template source: a path, or the embedded file name.
func (h *HTMLTemplate) Name() string { return h.name }

// Execute renders the payload to HTML.
func (h *HTMLTemplate) Execute(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, map[string]any(p)); err != nil {
		return nil, common.RenderFailed("execute template", fmt.Errorf("%s: %w", h.name, err))
	}
	return buf.Bytes(), nil
}

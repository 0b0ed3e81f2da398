package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
)

// DefaultMaxPromptChars caps the voucher text handed to the oracle.
const DefaultMaxPromptChars = 12000

// BuildSystemPrompt names the target fields and the reply shape.
func BuildSystemPrompt() string {
	var fields []string
	for _, f := range constants.Fields() {
		fields = append(fields, "- "+string(f.Name)+": "+f.Hint)
	}

	parts := []string{
		"You extract hotel voucher information. Return ONLY a single flat JSON object, no prose and no code fences.",
		"Use exactly these keys:",
		strings.Join(fields, "\n"),
		"Every value is a string or null, except additional_information which is an array of strings.",
		"Use null when a value is not in the document; never invent values.",
		"Copy dates and amounts as printed when unsure of the format; include the currency symbol or code with the rate.",
		"Do not use nested objects.",
	}
	return strings.Join(parts, "\n")
}

// BuildUserPrompt packages the voucher text, truncated to maxChars runes.
func BuildUserPrompt(req ExtractRequest, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	var b strings.Builder
	if name := strings.TrimSpace(req.FilenameHint); name != "" {
		b.WriteString("Filename: ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	if req.UsedOCR {
		b.WriteString("Note: some of this text was produced by OCR and may contain recognition errors.\n")
	}

	text := strings.TrimSpace(req.Text)
	b.WriteString("\nVoucher text:\n")
	if utf8.RuneCountInString(text) > maxChars {
		b.WriteString(string([]rune(text)[:maxChars]))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}

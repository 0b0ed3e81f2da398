package constants

import (
	"path/filepath"
	"strings"
)

// PDFMagic is the header every PDF container starts with.
const PDFMagic = "%PDF-"

// AllowedExtensions holds the file extensions picked up by batch runs.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedPath reports whether path has an extension batch runs accept.
func IsAllowedPath(path string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(path))]
	return ok
}

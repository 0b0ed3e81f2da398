package render

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

// Branding is the read-only company data merged into every voucher.
type Branding struct {
	CompanyName string
	LogoPath    string
	LogoDataURI string // logo inlined as a data: URI so the renderer needs no file access
	Email       string
	Phone       string
	Website     string
	Address     string
	Footer      string
}

// LoadBranding validates the branding config and inlines the logo. It fails with a
// BrandingConfig error when the company name or the logo is missing.
func LoadBranding(cfg common.BrandingConfig) (Branding, error) {
	v := common.NewValidator().
		Field("BRAND_COMPANY_NAME", cfg.CompanyName, common.Required, common.MaxLength(120)).
		Field("BRAND_LOGO_PATH", cfg.LogoPath, common.Required, common.ExistingFile).
		Field("BRAND_EMAIL", cfg.Email, common.OptionalEmail)
	if v.HasErrors() {
		return Branding{}, common.BrandingConfigError(v.ErrorMessage(), nil)
	}

	uri, err := readAsDataURL(cfg.LogoPath)
	if err != nil {
		return Branding{}, common.BrandingConfigError("read logo", err)
	}

	return Branding{
		CompanyName: strings.TrimSpace(cfg.CompanyName),
		LogoPath:    cfg.LogoPath,
		LogoDataURI: uri,
		Email:       strings.TrimSpace(cfg.Email),
		Phone:       strings.TrimSpace(cfg.Phone),
		Website:     strings.TrimSpace(cfg.Website),
		Address:     strings.TrimSpace(cfg.Address),
		Footer:      strings.TrimSpace(cfg.Footer),
	}, nil
}

func readAsDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(path))
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		// fallbacks
		switch ext {
		case ".jpg", ".jpeg":
			mt = "image/jpeg"
		case ".png":
			mt = "image/png"
		case ".svg":
			mt = "image/svg+xml"
		default:
			mt = "application/octet-stream"
		}
	}
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

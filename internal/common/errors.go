package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes surfaced to callers.
const (
	CodeUnreadablePDF     = "UNREADABLE_PDF"
	CodeOracleUnavailable = "ORACLE_UNAVAILABLE"
	CodeOracleMalformed   = "ORACLE_MALFORMED_RESPONSE"
	CodeBrandingConfig    = "BRANDING_CONFIG"
	CodeRender            = "RENDER_FAILED"
	CodeIncompleteRecord  = "INCOMPLETE_RECORD"
	CodeConfig            = "CONFIG_ERROR"
)

// Pipeline errors. Fatal ones abort the pipeline at the stage where they occur.
var (
	ErrUnreadablePDF     = errors.New("unreadable pdf")
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrOracleMalformed   = errors.New("oracle returned a malformed response")
	ErrBrandingConfig    = errors.New("branding config incomplete")
	ErrRender            = errors.New("render failed")
	ErrIncompleteRecord  = errors.New("voucher record incomplete")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnreadablePDF builds an UnreadablePdfError.
func UnreadablePDF(message string, cause error) error {
	return NewAppError(CodeUnreadablePDF, message, join(ErrUnreadablePDF, cause))
}

// OracleUnavailable builds an OracleUnavailableError (network, auth, timeout).
func OracleUnavailable(message string, cause error) error {
	return NewAppError(CodeOracleUnavailable, message, join(ErrOracleUnavailable, cause))
}

// OracleMalformed builds an OracleMalformedResponseError.
func OracleMalformed(message string, cause error) error {
	return NewAppError(CodeOracleMalformed, message, join(ErrOracleMalformed, cause))
}

// BrandingConfigError builds the error for missing or invalid branding.
func BrandingConfigError(message string, cause error) error {
	return NewAppError(CodeBrandingConfig, message, join(ErrBrandingConfig, cause))
}

func RenderFailed(message string, cause error) error {
	return NewAppError(CodeRender, message, join(ErrRender, cause))
}

func IncompleteRecord(message string) error {
	return NewAppError(CodeIncompleteRecord, message, ErrIncompleteRecord)
}

func join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}

// ErrorCode returns the AppError code in err's chain, or "".
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Remediation returns the message shown to a user for a pipeline error.
func Remediation(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnreadablePDF):
		return "The file could not be read as a PDF. Re-upload the original voucher PDF."
	case errors.Is(err, ErrOracleUnavailable):
		return "The extraction service could not be reached. Check OPENAI_API_KEY and network access, then retry."
	case errors.Is(err, ErrOracleMalformed):
		return "The extraction service returned an unusable answer. Retry the extraction."
	case errors.Is(err, ErrBrandingConfig):
		return "Branding is not configured. Set BRAND_COMPANY_NAME and BRAND_LOGO_PATH."
	case errors.Is(err, ErrRender):
		return "The voucher PDF could not be rendered. Check that the PDF renderer is installed."
	case errors.Is(err, ErrIncompleteRecord):
		return "Required voucher fields are missing or inconsistent. Review the fields or re-run the extraction."
	case errors.Is(err, ErrInvalidInput):
		return "Check the configuration and command arguments."
	default:
		return "Unexpected error. See the logs for details."
	}
}

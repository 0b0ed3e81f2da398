package constants

// IssueKind classifies a non-fatal normalization finding.
type IssueKind string

// Stable values (they appear in CLI output and review workbooks).
const (
	IssueMissingRequired      IssueKind = "MISSING_REQUIRED_FIELD"
	IssueInvalidValue         IssueKind = "INVALID_VALUE"
	IssueLogicalInconsistency IssueKind = "LOGICAL_INCONSISTENCY"
	IssueIgnoredField         IssueKind = "IGNORED_FIELD"    // oracle key with no canonical field
	IssueDuplicateField       IssueKind = "DUPLICATE_FIELD"  // later value replaced an earlier one
	IssueUnknownCurrency      IssueKind = "UNKNOWN_CURRENCY" // amount present, currency not determinable
)

// Blocking reports whether the kind stops voucher generation under the default policy.
func (k IssueKind) Blocking() bool {
	switch k {
	case IssueMissingRequired, IssueInvalidValue, IssueLogicalInconsistency:
		return true
	default:
		return false
	}
}

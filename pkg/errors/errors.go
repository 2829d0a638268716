// Package errors provides severity-aware error types for the estimation engine.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// EstimateError is a structured error with context.
type EstimateError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category,omitempty"`
	Quantity    string   `json:"quantity,omitempty"`
	Recoverable bool     `json:"recoverable"`
	Cause       error    `json:"-"`
}

func (e *EstimateError) Error() string {
	switch {
	case e.Category != "" && e.Quantity != "":
		return fmt.Sprintf("[%s] %s: %s (category: %s, quantity: %s)", e.Severity, e.Code, e.Message, e.Category, e.Quantity)
	case e.Category != "":
		return fmt.Sprintf("[%s] %s: %s (category: %s)", e.Severity, e.Code, e.Message, e.Category)
	default:
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
	}
}

func (e *EstimateError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeCalculatorFailed  = "CALCULATOR_FAILED"
	ErrCodeCategoryTimeout   = "CATEGORY_TIMEOUT"
	ErrCodeMatchNotFound     = "MATCH_NOT_FOUND"
	ErrCodeUnitMismatch      = "UNIT_MISMATCH"
	ErrCodeCatalogLoadFailed = "CATALOG_LOAD_FAILED"
	ErrCodePersistenceFailed = "PERSISTENCE_FAILED"
)

// NewValidationError creates an error for rejected project input. It is the
// only error that aborts an estimation run.
func NewValidationError(msg string) *EstimateError {
	return &EstimateError{
		Code:        ErrCodeValidationFailed,
		Message:     msg,
		Severity:    SeverityError,
		Recoverable: false,
	}
}

// NewCalculatorError wraps a quantity calculator failure. Category-scoped and
// recoverable: the run continues with the category marked as errored.
func NewCalculatorError(category string, cause error) *EstimateError {
	return &EstimateError{
		Code:        ErrCodeCalculatorFailed,
		Message:     fmt.Sprintf("quantity calculation failed: %v", cause),
		Severity:    SeverityError,
		Category:    category,
		Recoverable: true,
		Cause:       cause,
	}
}

// NewCategoryTimeoutError reports a calculator that exceeded its time budget.
func NewCategoryTimeoutError(category string) *EstimateError {
	return &EstimateError{
		Code:        ErrCodeCategoryTimeout,
		Message:     "quantity calculation exceeded category timeout",
		Severity:    SeverityError,
		Category:    category,
		Recoverable: true,
	}
}

// NewMatchNotFoundError reports an unresolved quantity. Quantity-scoped and
// recoverable: the quantity is recorded as unmatched.
func NewMatchNotFoundError(category, quantity string) *EstimateError {
	return &EstimateError{
		Code:        ErrCodeMatchNotFound,
		Message:     "no catalog item matched quantity",
		Severity:    SeverityWarning,
		Category:    category,
		Quantity:    quantity,
		Recoverable: true,
	}
}

// NewCatalogLoadError reports a catalog that could not be loaded. The engine
// substitutes an empty catalog and continues degraded.
func NewCatalogLoadError(source string, cause error) *EstimateError {
	return &EstimateError{
		Code:        ErrCodeCatalogLoadFailed,
		Message:     fmt.Sprintf("failed to load catalog from %s: %v", source, cause),
		Severity:    SeverityError,
		Recoverable: true,
		Cause:       cause,
	}
}

// NewPersistenceError reports a save/load I/O failure.
func NewPersistenceError(op string, cause error) *EstimateError {
	return &EstimateError{
		Code:        ErrCodePersistenceFailed,
		Message:     fmt.Sprintf("%s failed: %v", op, cause),
		Severity:    SeverityError,
		Recoverable: true,
		Cause:       cause,
	}
}

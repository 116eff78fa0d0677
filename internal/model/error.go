package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON            = "INVALID_JSON"
	ErrCodeMissingField           = "MISSING_FIELD"
	ErrCodeCatalogLoad            = "CATALOG_LOAD_ERROR"
	ErrCodeCatalogNotLoaded       = "CATALOG_NOT_LOADED"
	ErrCodeFoodNotFound           = "FOOD_NOT_FOUND"
	ErrCodeInvalidPortionLabel    = "INVALID_PORTION_LABEL"
	ErrCodeInvalidQuantity        = "INVALID_QUANTITY"
	ErrCodeInvalidServingSize     = "INVALID_SERVING_SIZE"
	ErrCodeInvalidGrams           = "INVALID_GRAMS"
	ErrCodeInvalidSensitivity     = "INVALID_SENSITIVITY"
	ErrCodeInvalidCarbs           = "INVALID_CARBS"
	ErrCodeInvalidBaselineGlucose = "INVALID_BASELINE_GLUCOSE"
	ErrCodeInvalidCarbBasis       = "INVALID_CARB_BASIS"
	ErrCodeReloadInProgress       = "RELOAD_IN_PROGRESS"
	ErrCodeUnauthorised           = "UNAUTHORIZED"
	ErrCodeRateLimited            = "RATE_LIMITED"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so that a detailed copy
// produced by WithMessage still matches its sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a more specific message.
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCatalogLoad            = NewDomainError(ErrCodeCatalogLoad, "Food catalog could not be loaded")
	ErrCatalogNotLoaded       = NewDomainError(ErrCodeCatalogNotLoaded, "Food catalog is not loaded")
	ErrFoodNotFound           = NewDomainError(ErrCodeFoodNotFound, "Food not found in catalog")
	ErrInvalidPortionLabel    = NewDomainError(ErrCodeInvalidPortionLabel, "Portion label is not recognised")
	ErrInvalidQuantity        = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidServingSize     = NewDomainError(ErrCodeInvalidServingSize, "Standard serving size must be greater than zero")
	ErrInvalidGrams           = NewDomainError(ErrCodeInvalidGrams, "Grams must not be negative")
	ErrInvalidSensitivity     = NewDomainError(ErrCodeInvalidSensitivity, "Carb sensitivity must be greater than zero")
	ErrInvalidCarbs           = NewDomainError(ErrCodeInvalidCarbs, "Carbohydrate grams must not be negative")
	ErrInvalidBaselineGlucose = NewDomainError(ErrCodeInvalidBaselineGlucose, "Baseline glucose must not be negative")
	ErrInvalidCarbBasis       = NewDomainError(ErrCodeInvalidCarbBasis, "Carb basis must be total or net")
)

// CatalogLoadError reports a failed catalog load and keeps the underlying
// cause available to errors.Is / errors.As.
type CatalogLoadError struct {
	Source string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	return "failed to load food catalog from " + e.Source + ": " + e.Err.Error()
}

func (e *CatalogLoadError) Unwrap() []error {
	return []error{ErrCatalogLoad, e.Err}
}

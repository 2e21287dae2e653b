package customization

// Code identifies why a record was rejected.
type Code string

const (
	CodeWordTooShort       Code = "WordTooShort"
	CodeWordTooLong        Code = "WordTooLong"
	CodeInvalidLetterColor Code = "InvalidLetterColor"
	CodeNegativeCharmPrice Code = "NegativeCharmPrice"
	CodeCharmPriceScale    Code = "CharmPriceScale"
	CodeInvalidSize        Code = "InvalidSize"
)

// ValidationError is a rejected record. The shopper can fix the input and retry.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Is matches any ValidationError with the same code, so errors.Is works against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

var (
	ErrWordTooShort       = &ValidationError{Code: CodeWordTooShort}
	ErrWordTooLong        = &ValidationError{Code: CodeWordTooLong}
	ErrInvalidLetterColor = &ValidationError{Code: CodeInvalidLetterColor}
	ErrNegativeCharmPrice = &ValidationError{Code: CodeNegativeCharmPrice}
	ErrCharmPriceScale    = &ValidationError{Code: CodeCharmPriceScale}
	ErrInvalidSize        = &ValidationError{Code: CodeInvalidSize}
)

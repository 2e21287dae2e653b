package customization

import (
	"fmt"
	"strings"
)

// Validate checks rec against the store limits. Word length is checked before the letter color,
// and the first failure is returned.
func Validate(rec Record, s Settings) error {
	n := rec.WordLength()
	if n < s.MinWordLength {
		return &ValidationError{
			Code:    CodeWordTooShort,
			Message: fmt.Sprintf("word must be at least %d characters long", s.MinWordLength),
		}
	}
	if n > s.MaxWordLength {
		return &ValidationError{
			Code:    CodeWordTooLong,
			Message: fmt.Sprintf("word cannot be longer than %d characters", s.MaxWordLength),
		}
	}

	if strings.TrimSpace(rec.LetterColor) != "" {
		color, ok := s.Color(rec.LetterColor)
		if !ok || !color.Enabled {
			return &ValidationError{
				Code:    CodeInvalidLetterColor,
				Message: fmt.Sprintf("invalid letter color %q", rec.LetterColor),
			}
		}
	}

	for i, c := range rec.SelectedCharms {
		if c.Price.IsNegative() {
			return &ValidationError{
				Code:    CodeNegativeCharmPrice,
				Message: fmt.Sprintf("charm %d (%s) has a negative price", i, c.ID),
			}
		}
		if !c.Price.Equal(c.Price.Truncate(PriceScale)) {
			return &ValidationError{
				Code:    CodeCharmPriceScale,
				Message: fmt.Sprintf("charm %d (%s) price has more than %d fraction digits", i, c.ID, PriceScale),
			}
		}
	}
	return nil
}

// ValidateSize checks the band size against the sizes a product offers. An empty size or an empty
// size list is accepted.
func ValidateSize(rec Record, sizes []string) error {
	size := strings.TrimSpace(rec.Size)
	if size == "" || len(sizes) == 0 {
		return nil
	}
	for _, s := range sizes {
		if strings.EqualFold(strings.TrimSpace(s), size) {
			return nil
		}
	}
	return &ValidationError{
		Code:    CodeInvalidSize,
		Message: fmt.Sprintf("size %q is not available (choose one of %s)", rec.Size, strings.Join(sizes, ", ")),
	}
}

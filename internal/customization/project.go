package customization

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	LabelWord        = "Word"
	LabelLetterColor = "Letter Color"
	LabelCharms      = "Charms"
	LabelSize        = "Size"
)

// Pair is one display line of a customization on a cart line, order line or receipt.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Project renders the non-empty fields of rec as ordered pairs: word, letter color, charms, size.
func Project(rec Record) []Pair {
	pairs := make([]Pair, 0, 4)

	if word := strings.TrimSpace(rec.Word); word != "" {
		pairs = append(pairs, Pair{Key: LabelWord, Value: strings.ToUpper(word)})
	}
	if color := strings.TrimSpace(rec.LetterColor); color != "" {
		pairs = append(pairs, Pair{Key: LabelLetterColor, Value: capitalize(color)})
	}
	if names := charmNames(rec.SelectedCharms); len(names) > 0 {
		pairs = append(pairs, Pair{Key: LabelCharms, Value: strings.Join(names, ", ")})
	}
	if size := strings.TrimSpace(rec.Size); size != "" {
		pairs = append(pairs, Pair{Key: LabelSize, Value: strings.ToUpper(size)})
	}
	return pairs
}

func charmNames(charms []Charm) []string {
	var names []string
	for _, c := range charms {
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// capitalize upper-cases the first letter and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Package customization holds the bracelet customization rules: the record a shopper builds in the
// customizer, its validation against store settings, line pricing and the order-line projection.
//
// Every function here is pure. Settings are passed in explicitly; nothing reads global state.
package customization

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed is returned when a payload cannot be decoded into a Record.
var ErrMalformed = errors.New("malformed customization")

// Charm is a charm reference selected in the customizer.
type Charm struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// Record is the shopper's configuration for one bracelet.
type Record struct {
	Word           string  `json:"word,omitempty"`
	LetterColor    string  `json:"letterColor,omitempty"`
	SelectedCharms []Charm `json:"selectedCharms,omitempty"`
	Size           string  `json:"size,omitempty"`
}

// Decode reads a single JSON record from r. Unknown fields and trailing data are rejected.
func Decode(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return Record{}, fmt.Errorf("%w: trailing data after record", ErrMalformed)
	}
	return rec, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(raw []byte) (Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Record{}, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	return Decode(bytes.NewReader(raw))
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.SelectedCharms != nil {
		out.SelectedCharms = make([]Charm, len(r.SelectedCharms))
		copy(out.SelectedCharms, r.SelectedCharms)
	}
	return out
}

// WordLength is the number of characters in the trimmed word.
func (r Record) WordLength() int {
	return len([]rune(strings.TrimSpace(r.Word)))
}

// CharmsTotal sums the prices of the selected charms.
func (r Record) CharmsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.SelectedCharms {
		total = total.Add(c.Price)
	}
	return total
}

// Committed is a validated record attached to a cart or order line. It cannot be changed; a new
// customization needs a new Commit and a new line.
type Committed struct {
	rec Record
}

// Commit validates rec against s and freezes it.
func Commit(rec Record, s Settings) (Committed, error) {
	if err := Validate(rec, s); err != nil {
		return Committed{}, err
	}
	return Committed{rec: rec.Clone()}, nil
}

// Restore rebuilds a Committed value from a record that was committed earlier and persisted.
// It does not validate: settings may have changed since the line was created.
func Restore(rec Record) Committed {
	return Committed{rec: rec.Clone()}
}

// Record returns a copy of the committed record.
func (c Committed) Record() Record {
	return c.rec.Clone()
}

// MarshalJSON encodes the committed record.
func (c Committed) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.rec)
}

// UnmarshalJSON loads a persisted record.
func (c *Committed) UnmarshalJSON(raw []byte) error {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return err
	}
	c.rec = rec
	return nil
}

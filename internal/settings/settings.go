// Package settings holds the operator-editable store settings and resolves the rules the
// customizer runs with.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LetterColor is the stored form of a letter color.
type LetterColor struct {
	ID        string          `json:"id" validate:"required,max=32"`
	Name      string          `json:"name" validate:"required,max=64"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Enabled   bool            `json:"enabled"`
}

// ButtonLabels are the storefront button captions.
type ButtonLabels struct {
	AddToCart   string `json:"addToCart" validate:"max=64"`
	Customize   string `json:"customize" validate:"max=64"`
	SaveDesign  string `json:"saveDesign" validate:"max=64"`
	ChooseCharm string `json:"chooseCharm" validate:"max=64"`
}

// Advanced holds operator-only switches. It is never exposed to shoppers.
type Advanced struct {
	UseStaticCatalog bool `json:"useStaticCatalog"`
	DebugLogging     bool `json:"debugLogging"`
}

// Store is the whole settings document as persisted.
type Store struct {
	MinWordLength  int           `json:"minWordLength" validate:"min=1,max=64"`
	MaxWordLength  int           `json:"maxWordLength" validate:"min=1,max=64,gtefield=MinWordLength"`
	FractionDigits int32         `json:"fractionDigits" validate:"min=0,max=4"`
	Currency       string        `json:"currency" validate:"required,len=3,alpha"`
	LetterColors   []LetterColor `json:"letterColors" validate:"required,min=1,dive"`
	DefaultSizes   []string      `json:"defaultSizes" validate:"omitempty,dive,required,max=16"`
	Buttons        ButtonLabels  `json:"buttons"`
	Advanced       Advanced      `json:"advanced"`
}

// Public is the shopper-facing view of the store settings.
type Public struct {
	MinWordLength  int           `json:"minWordLength"`
	MaxWordLength  int           `json:"maxWordLength"`
	FractionDigits int32         `json:"fractionDigits"`
	Currency       string        `json:"currency"`
	LetterColors   []LetterColor `json:"letterColors"`
	DefaultSizes   []string      `json:"defaultSizes"`
	Buttons        ButtonLabels  `json:"buttons"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints plus the ones the tags cannot express.
func (s Store) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	seen := make(map[string]struct{}, len(s.LetterColors))
	for _, c := range s.LetterColors {
		id := strings.ToLower(strings.TrimSpace(c.ID))
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate letter color %q", domain.ErrInvalidInput, c.ID)
		}
		seen[id] = struct{}{}
		if c.Surcharge.IsNegative() {
			return fmt.Errorf("%w: letter color %q has a negative surcharge", domain.ErrInvalidInput, c.ID)
		}
	}
	return nil
}

// Rules converts the document into the settings the customization rules take.
func (s Store) Rules() customization.Settings {
	colors := make([]customization.LetterColor, 0, len(s.LetterColors))
	for _, c := range s.LetterColors {
		colors = append(colors, customization.LetterColor(c))
	}
	return customization.Settings{
		MinWordLength:  s.MinWordLength,
		MaxWordLength:  s.MaxWordLength,
		LetterColors:   colors,
		FractionDigits: s.FractionDigits,
	}
}

// Sizes returns the configured default sizes, or the built-in list.
func (s Store) Sizes() []string {
	if len(s.DefaultSizes) == 0 {
		return customization.DefaultSizes
	}
	return s.DefaultSizes
}

func (s Store) Public() Public {
	return Public{
		MinWordLength:  s.MinWordLength,
		MaxWordLength:  s.MaxWordLength,
		FractionDigits: s.FractionDigits,
		Currency:       s.Currency,
		LetterColors:   s.LetterColors,
		DefaultSizes:   s.Sizes(),
		Buttons:        s.Buttons,
	}
}

// Defaults builds a settings document from rule settings and a currency.
func Defaults(rules customization.Settings, currency string) Store {
	colors := make([]LetterColor, 0, len(rules.LetterColors))
	for _, c := range rules.LetterColors {
		colors = append(colors, LetterColor(c))
	}
	return Store{
		MinWordLength:  rules.MinWordLength,
		MaxWordLength:  rules.MaxWordLength,
		FractionDigits: rules.FractionDigits,
		Currency:       strings.ToUpper(currency),
		LetterColors:   colors,
		DefaultSizes:   append([]string(nil), customization.DefaultSizes...),
		Buttons: ButtonLabels{
			AddToCart:   "Add to Cart",
			Customize:   "Customize",
			SaveDesign:  "Save Design",
			ChooseCharm: "Choose Charm",
		},
	}
}

// ValidatedDefaults is Defaults followed by Validate.
func ValidatedDefaults(rules customization.Settings, currency string) (Store, error) {
	st := Defaults(rules, currency)
	if err := st.Validate(); err != nil {
		return Store{}, fmt.Errorf("default settings: %w", err)
	}
	return st, nil
}

type repository interface {
	Get(ctx context.Context) (*Store, error)
	Save(ctx context.Context, s Store) error
}

// Provider serves the stored settings, falling back to the configured defaults until an operator
// saves a document.
type Provider struct {
	repo     repository
	defaults Store
	log      zerolog.Logger
	debug    func(on bool)
}

func NewProvider(repo repository, defaults Store, log zerolog.Logger) *Provider {
	return &Provider{repo: repo, defaults: defaults, log: log}
}

// OnDebugLogging registers fn to receive the advanced debug switch on Sync and after every Replace.
func (p *Provider) OnDebugLogging(fn func(on bool)) {
	p.debug = fn
}

// Sync applies the switches of the current document. It runs once at startup.
func (p *Provider) Sync(ctx context.Context) error {
	st, err := p.Current(ctx)
	if err != nil {
		return err
	}
	p.apply(st)
	return nil
}

func (p *Provider) apply(s Store) {
	if p.debug == nil {
		return
	}
	p.debug(s.Advanced.DebugLogging)
	p.log.Info().Bool("debug_logging", s.Advanced.DebugLogging).Msg("log level applied")
}

func (p *Provider) Current(ctx context.Context) (Store, error) {
	if p.repo == nil {
		return p.defaults, nil
	}
	stored, err := p.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return p.defaults, nil
		}
		return Store{}, fmt.Errorf("load settings: %w", err)
	}
	return *stored, nil
}

// Replace validates s and stores it in place of the current document.
func (p *Provider) Replace(ctx context.Context, s Store) (Store, error) {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if err := s.Validate(); err != nil {
		return Store{}, err
	}
	if p.repo == nil {
		return Store{}, errors.New("settings storage is not configured")
	}
	if err := p.repo.Save(ctx, s); err != nil {
		return Store{}, fmt.Errorf("save settings: %w", err)
	}
	p.log.Info().
		Int("min_word_length", s.MinWordLength).
		Int("max_word_length", s.MaxWordLength).
		Int("letter_colors", len(s.LetterColors)).
		Msg("store settings replaced")
	p.apply(s)
	return s, nil
}

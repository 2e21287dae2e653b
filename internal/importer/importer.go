// Package importer loads bracelet and charm products from CSV.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads product CSV files and inserts or updates products by key.
//
// A row with a key starts a product. Rows without a key continue the previous product and carry
// one extra image in the image_slot and image_url columns. Slots are "gap:<chars>",
// "stone:<NN>_<O|E>", "position:<n>" and "main_charm".
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	currency   string
	log        zerolog.Logger
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, defaultCurrency string, log zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		products:   products,
		categories: categories,
		currency:   strings.ToUpper(defaultCurrency),
		log:        log,
	}
}

type csvRow struct {
	line         int
	Key          string
	Type         domain.ProductType
	Name         string
	Desc         string
	SKU          string
	Price        decimal.Decimal
	Currency     string
	Category     string
	Image        string
	Customizable bool
	Sizes        []string
	Bestseller   bool
	IsNew        bool
	Vibe         string
	Tags         []string

	gapImages      map[string]string
	stoneImages    map[string]string
	positionImages map[string]string
	mainCharmImage string
}

// Run parses CSV rows and upserts products grouped by product key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		key := pick(record, index, "key")
		if key == "" {
			if current == nil {
				continue
			}
			// Continuation rows (images) belong to the current product.
			if err := current.addImage(pick(record, index, "image_slot"), pick(record, index, "image_url")); err != nil {
				return imported, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}

		if current != nil {
			if err := i.save(ctx, current); err != nil {
				return imported, err
			}
			imported++
		}
		current, err = parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.log.Info().Int("products", imported).Msg("csv import finished")
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.SKU == "" {
		return fmt.Errorf("line %d: invalid product row (missing name or sku) for key %q", row.line, row.Key)
	}
	currency := row.Currency
	if currency == "" {
		currency = i.currency
	}

	attrs, err := row.attributes()
	if err != nil {
		return fmt.Errorf("line %d: %w", row.line, err)
	}

	p := domain.Product{
		Key:          row.Key,
		SKU:          row.SKU,
		Type:         row.Type,
		Name:         row.Name,
		Description:  row.Desc,
		Price:        row.Price,
		Currency:     currency,
		Customizable: row.Customizable,
		Attributes:   attrs,
	}
	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Key, err)
	}

	if row.Category != "" && i.categories != nil {
		c := domain.Category{Kind: row.Type, Key: row.Category, Name: categoryName(row.Category)}
		if _, err := i.categories.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert category %q: %w", row.Category, err)
		}
	}
	i.log.Debug().Str("key", row.Key).Str("type", string(row.Type)).Msg("product imported")
	return nil
}

func (r *csvRow) attributes() (json.RawMessage, error) {
	var doc any
	switch r.Type {
	case domain.ProductTypeBracelet:
		doc = catalog.BraceletAttributes{
			Image:            r.Image,
			GapImages:        r.gapImages,
			MainCharmImage:   r.mainCharmImage,
			SpaceStoneImages: r.stoneImages,
			AvailableSizes:   r.Sizes,
			IsBestSeller:     r.Bestseller,
			Category:         r.Category,
		}
	case domain.ProductTypeCharm:
		doc = catalog.CharmAttributes{
			Image:          r.Image,
			PositionImages: r.positionImages,
			IsNew:          r.IsNew,
			Category:       r.Category,
			Vibe:           r.Vibe,
			Tags:           r.Tags,
		}
	default:
		doc = map[string]string{"image": r.Image, "category": r.Category}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return raw, nil
}

func (r *csvRow) addImage(slot, url string) error {
	slot = strings.ToLower(strings.TrimSpace(slot))
	if url == "" {
		return nil
	}
	kind, arg, _ := strings.Cut(slot, ":")
	switch kind {
	case "gap":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 2 || n > 13 {
			return fmt.Errorf("gap image slot %q must be 2..13", slot)
		}
		if r.gapImages == nil {
			r.gapImages = map[string]string{}
		}
		r.gapImages[strconv.Itoa(n)] = url
	case "stone":
		key, ok := stoneKey(arg)
		if !ok {
			return fmt.Errorf("space stone slot %q must look like stone:01_O", slot)
		}
		if r.stoneImages == nil {
			r.stoneImages = map[string]string{}
		}
		r.stoneImages[key] = url
	case "position":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > 9 {
			return fmt.Errorf("position image slot %q must be 1..9", slot)
		}
		if r.positionImages == nil {
			r.positionImages = map[string]string{}
		}
		r.positionImages[strconv.Itoa(n)] = url
	case "main_charm":
		r.mainCharmImage = url
	default:
		return fmt.Errorf("unknown image slot %q", slot)
	}
	return nil
}

// stoneKey validates NN_O / NN_E with positions 1..13.
func stoneKey(arg string) (string, bool) {
	pos, format, ok := strings.Cut(strings.ToUpper(arg), "_")
	if !ok || (format != "O" && format != "E") {
		return "", false
	}
	n, err := strconv.Atoi(pos)
	if err != nil || n < 1 || n > 13 {
		return "", false
	}
	return fmt.Sprintf("%02d_%s", n, format), true
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	row := &csvRow{
		line:     line,
		Key:      pick(record, index, "key"),
		Type:     domain.ProductType(strings.ToLower(pick(record, index, "type"))),
		Name:     pick(record, index, "name"),
		Desc:     pick(record, index, "description"),
		SKU:      pick(record, index, "sku"),
		Currency: strings.ToUpper(pick(record, index, "currency")),
		Category: catalog.NormalizeCategory(pick(record, index, "category")),
		Image:    pick(record, index, "image"),
		Vibe:     pick(record, index, "vibe"),
		Sizes:    splitList(pick(record, index, "sizes"), ";"),
		Tags:     splitList(pick(record, index, "tags"), ";"),
	}
	if !row.Type.Valid() {
		return nil, fmt.Errorf("line %d: unknown product type %q for key %q", line, row.Type, row.Key)
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("line %d: invalid price for key %q", line, row.Key)
	}
	row.Price = price

	row.Customizable = parseFlag(pick(record, index, "customizable"))
	row.Bestseller = parseFlag(pick(record, index, "bestseller"))
	row.IsNew = parseFlag(pick(record, index, "new"))
	return row, nil
}

func parseFlag(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func splitList(v, sep string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func categoryName(key string) string {
	words := strings.Split(key, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/stylematch/core"
)

// CSV column names.
const (
	ColumnID          = "id"
	ColumnDescription = "productDisplayName"
	ColumnCategory    = "articleType"
	ColumnGender      = "gender"
	ColumnEmbeddings  = "embeddings"
)

var requiredColumns = []string{ColumnID, ColumnDescription, ColumnCategory, ColumnGender}

// ReadOption configures ReadItems and ReadCSV.
type ReadOption func(*readOptions)

type readOptions struct {
	skipInvalid bool
	onSkip      func(line int, err error)
}

// WithSkipInvalid drops rows that fail validation instead of failing the read.
// onSkip, if not nil, is called for each dropped row.
func WithSkipInvalid(onSkip func(line int, err error)) ReadOption {
	return func(o *readOptions) {
		o.skipInvalid = true
		o.onSkip = onSkip
	}
}

// ReadItems parses catalog rows from r. Columns are located by header name
// and unknown columns are ignored. The embeddings column is optional; when
// present and non-empty, DescriptionHash is set so the row is not stale.
func ReadItems(r io.Reader, opts ...ReadOption) ([]core.CatalogItem, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: catalog csv is empty", core.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv header: %w", core.ErrInvalidInput, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: catalog csv missing column %q", core.ErrInvalidInput, name)
		}
	}
	embedCol, hasEmbeddings := cols[ColumnEmbeddings]

	field := func(record []string, i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var items []core.CatalogItem
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
		}
		line, _ := reader.FieldPos(0)

		item, err := parseRow(record, cols, field)
		if err == nil && hasEmbeddings {
			item.Embedding, err = ParseEmbedding(field(record, embedCol))
			if item.HasEmbedding() {
				item.DescriptionHash = core.IDFromContent(item.Description)
			}
		}
		if err == nil {
			err = core.ValidateCatalogItem(&item)
		}
		if err != nil {
			err = fmt.Errorf("line %d: %w", line, err)
			if o.skipInvalid {
				if o.onSkip != nil {
					o.onSkip(line, err)
				}
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func parseRow(record []string, cols map[string]int, field func([]string, int) string) (core.CatalogItem, error) {
	gender, err := core.ParseGender(field(record, cols[ColumnGender]))
	if err != nil {
		return core.CatalogItem{}, err
	}
	return core.CatalogItem{
		Id:          field(record, cols[ColumnID]),
		Description: field(record, cols[ColumnDescription]),
		Category:    field(record, cols[ColumnCategory]),
		Gender:      gender,
	}, nil
}

// ReadCSV parses r and builds a Catalog from the rows.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Catalog, error) {
	items, err := ReadItems(r, opts...)
	if err != nil {
		return nil, err
	}
	return New(items)
}

// WriteCSV writes items with a header row. The embeddings column is always
// written; items without a vector get an empty cell.
func WriteCSV(w io.Writer, items []core.CatalogItem) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{ColumnID, ColumnDescription, ColumnCategory, ColumnGender, ColumnEmbeddings}); err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		row := []string{item.Id, item.Description, item.Category, string(item.Gender), ""}
		if item.HasEmbedding() {
			row[4] = FormatEmbedding(item.Embedding)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing item %s: %w", item.Id, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatEmbedding renders v as "[v1, v2, ...]" using the shortest
// representation that round-trips through float32.
func FormatEmbedding(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*12 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseEmbedding parses the format produced by FormatEmbedding. The brackets
// are optional. An empty cell or "[]" yields a nil vector.
func ParseEmbedding(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding value %d: %w", core.ErrInvalidInput, i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

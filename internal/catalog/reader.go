// Package catalog reads raw product records from JSON Lines catalog dumps.
package catalog

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/price-curator/internal/model"
)

// maxLineSize bounds a single JSON line. Catalog dumps carry long descriptions.
const maxLineSize = 16 * 1024 * 1024

var (
	// ErrMalformedRecord is returned for a line missing a required field or
	// holding a field of the wrong shape.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnpriced is returned by ReadLine for a record without a usable price.
	ErrUnpriced = errors.New("record has no usable price")
	// ErrLineNotFound is returned by ReadLine past the end of the file.
	ErrLineNotFound = errors.New("line not found")
	// errNoPrice marks a record without a usable price. Such records are skipped.
	errNoPrice = errors.New("no usable price")
)

var requiredFields = []string{"title", "description", "features", "details", "price"}

// Result holds the records read from one source.
type Result struct {
	Source   string
	Records  []model.RawRecord
	Lines    int
	Unpriced int // Records skipped for a missing, unparseable or non-positive price
}

// Reader decodes catalog lines into raw records tagged with a category.
type Reader struct {
	category string
}

// NewReader creates a reader that tags every record with category.
// An empty category is derived from each file name (meta_Appliances.jsonl -> Appliances).
func NewReader(category string) *Reader {
	return &Reader{category: category}
}

// ReadFile reads a .jsonl or .jsonl.gz file.
func (r *Reader) ReadFile(ctx context.Context, path string) (*Result, error) {
	src, closeFn, err := open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	category := r.category
	if category == "" {
		category = CategoryFromPath(path)
	}

	result, err := read(ctx, src, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.Source = path

	slog.Info("Read catalog",
		"path", path,
		"category", category,
		"lines", result.Lines,
		"records", len(result.Records),
		"unpriced", result.Unpriced)

	return result, nil
}

// ReadLine decodes the record on the 1-based line n of path.
// A line without a usable price returns ErrUnpriced.
func (r *Reader) ReadLine(path string, n int) (model.RawRecord, error) {
	if n < 1 {
		return model.RawRecord{}, fmt.Errorf("%w: %d", ErrLineNotFound, n)
	}

	src, closeFn, err := open(path)
	if err != nil {
		return model.RawRecord{}, err
	}
	defer closeFn()

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; scanner.Scan(); line++ {
		if line < n {
			continue
		}
		rec, err := ParseLine(bytes.TrimSpace(scanner.Bytes()))
		if errors.Is(err, errNoPrice) {
			return model.RawRecord{}, fmt.Errorf("line %d: %w", n, ErrUnpriced)
		}
		if err != nil {
			return model.RawRecord{}, fmt.Errorf("line %d: %w", n, err)
		}
		rec.Category = r.category
		if rec.Category == "" {
			rec.Category = CategoryFromPath(path)
		}
		return rec, nil
	}
	if err := scanner.Err(); err != nil {
		return model.RawRecord{}, fmt.Errorf("failed to scan catalog: %w", err)
	}
	return model.RawRecord{}, fmt.Errorf("%w: %d", ErrLineNotFound, n)
}

// open returns a reader over path, decompressing .gz files.
func open(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, func() { _ = f.Close() }, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return gz, func() {
		_ = gz.Close()
		_ = f.Close()
	}, nil
}

// Read decodes records from src.
func (r *Reader) Read(ctx context.Context, src io.Reader) (*Result, error) {
	return read(ctx, src, r.category)
}

func read(ctx context.Context, src io.Reader, category string) (*Result, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	result := &Result{}
	for scanner.Scan() {
		result.Lines++
		if result.Lines%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := ParseLine(line)
		if errors.Is(err, errNoPrice) {
			result.Unpriced++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", result.Lines, err)
		}
		rec.Category = category
		result.Records = append(result.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}

	return result, nil
}

// ParseLine decodes one JSON object into a record. The category is left empty.
func ParseLine(line []byte) (model.RawRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return model.RawRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return model.RawRecord{}, fmt.Errorf("%w: missing %q", ErrMalformedRecord, name)
		}
	}

	var rec model.RawRecord
	if err := json.Unmarshal(fields["title"], &rec.Title); err != nil || isNull(fields["title"]) {
		return model.RawRecord{}, fmt.Errorf("%w: title must be a string", ErrMalformedRecord)
	}
	if err := json.Unmarshal(fields["description"], &rec.Description); err != nil {
		return model.RawRecord{}, fmt.Errorf("%w: description must be a list of strings", ErrMalformedRecord)
	}
	if err := json.Unmarshal(fields["features"], &rec.Features); err != nil {
		return model.RawRecord{}, fmt.Errorf("%w: features must be a list of strings", ErrMalformedRecord)
	}

	details, err := parseDetails(fields["details"])
	if err != nil {
		return model.RawRecord{}, err
	}
	rec.Details = details

	price, err := parsePrice(fields["price"])
	if err != nil {
		return model.RawRecord{}, err
	}
	rec.Price = price

	return rec, nil
}

// parseDetails accepts a string, an object kept as compact JSON text, or null.
func parseDetails(raw json.RawMessage) (string, error) {
	switch {
	case isNull(raw):
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: details: %v", ErrMalformedRecord, err)
		}
		return s, nil
	case raw[0] == '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", fmt.Errorf("%w: details: %v", ErrMalformedRecord, err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("%w: details must be a string or an object", ErrMalformedRecord)
	}
}

// parsePrice accepts a number or a numeric string such as "12.99" or "$12.99".
// Anything else that is not a structural error yields errNoPrice.
func parsePrice(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, errNoPrice
	}

	var price float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: price: %v", ErrMalformedRecord, err)
		}
		s = strings.TrimPrefix(strings.TrimSpace(s), "$")
		p, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return 0, errNoPrice
		}
		price = p
	case '[', '{', 't', 'f':
		return 0, fmt.Errorf("%w: price must be a number", ErrMalformedRecord)
	default:
		if err := json.Unmarshal(raw, &price); err != nil {
			return 0, fmt.Errorf("%w: price: %v", ErrMalformedRecord, err)
		}
	}

	if !(price > 0) || math.IsInf(price, 0) {
		return 0, errNoPrice
	}
	return price, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// CategoryFromPath derives a category from a catalog file name.
func CategoryFromPath(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".jsonl", ".json"} {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.TrimPrefix(name, "raw_")
	name = strings.TrimPrefix(name, "meta_")
	return strings.ReplaceAll(name, "_", " ")
}

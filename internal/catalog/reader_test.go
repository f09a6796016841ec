package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applianceLines = `{"title": "Steel Shelf", "description": ["A sturdy steel shelf unit"], "features": ["5 shelves", "Adjustable height"], "details": "{\"Brand\": \"Acme\"}", "price": 49.0}
{"title": "Ice Tray", "description": [], "features": ["BPA free"], "details": {"Color": "Blue", "Item Weight": "4 ounces"}, "price": "12.99"}

{"title": "Mystery Box", "description": ["Unknown"], "features": [], "details": null, "price": "None"}
{"title": "Free Sample", "description": [], "features": [], "details": "", "price": 0}
`

func TestReader_Read(t *testing.T) {
	r := NewReader("Appliances")

	result, err := r.Read(context.Background(), strings.NewReader(applianceLines))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Lines)
	assert.Equal(t, 2, result.Unpriced)
	require.Len(t, result.Records, 2)

	shelf := result.Records[0]
	assert.Equal(t, "Steel Shelf", shelf.Title)
	assert.Equal(t, "Appliances", shelf.Category)
	assert.Equal(t, []string{"A sturdy steel shelf unit"}, shelf.Description)
	assert.Equal(t, []string{"5 shelves", "Adjustable height"}, shelf.Features)
	assert.Equal(t, `{"Brand": "Acme"}`, shelf.Details)
	assert.Equal(t, 49.0, shelf.Price)

	tray := result.Records[1]
	assert.Equal(t, `{"Color":"Blue","Item Weight":"4 ounces"}`, tray.Details)
	assert.Equal(t, 12.99, tray.Price)
	assert.Empty(t, tray.Description)
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", `{"title": `},
		{"not an object", `["a"]`},
		{"missing title", `{"description": [], "features": [], "details": "", "price": 1}`},
		{"missing details", `{"title": "x", "description": [], "features": [], "price": 1}`},
		{"missing price", `{"title": "x", "description": [], "features": [], "details": ""}`},
		{"null title", `{"title": null, "description": [], "features": [], "details": "", "price": 1}`},
		{"numeric title", `{"title": 5, "description": [], "features": [], "details": "", "price": 1}`},
		{"description string", `{"title": "x", "description": "text", "features": [], "details": "", "price": 1}`},
		{"features of numbers", `{"title": "x", "description": [], "features": [1, 2], "details": "", "price": 1}`},
		{"details list", `{"title": "x", "description": [], "features": [], "details": ["a"], "price": 1}`},
		{"price bool", `{"title": "x", "description": [], "features": [], "details": "", "price": true}`},
		{"price object", `{"title": "x", "description": [], "features": [], "details": "", "price": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine([]byte(tt.line))
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestParseLine_Prices(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  float64
		ok    bool
	}{
		{"number", `19.5`, 19.5, true},
		{"string", `"19.50"`, 19.5, true},
		{"dollar string", `"$1,299.00"`, 1299, true},
		{"none string", `"None"`, 0, false},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"zero", `0`, 0, false},
		{"negative", `-3`, 0, false},
		{"nan string", `"NaN"`, 0, false},
		{"inf string", `"Inf"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := `{"title": "x", "description": [], "features": [], "details": "", "price": ` + tt.price + `}`
			rec, err := ParseLine([]byte(line))
			if !tt.ok {
				assert.ErrorIs(t, err, errNoPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Price)
		})
	}
}

func TestParseLine_NullListsAreEmpty(t *testing.T) {
	rec, err := ParseLine([]byte(`{"title": "x", "description": null, "features": null, "details": null, "price": 3}`))
	require.NoError(t, err)
	assert.Empty(t, rec.Description)
	assert.Empty(t, rec.Features)
	assert.Empty(t, rec.Details)
}

func TestReader_ReadReportsLine(t *testing.T) {
	input := `{"title": "ok", "description": [], "features": [], "details": "", "price": 1}
{"title": "broken"}
`
	_, err := NewReader("").Read(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReader_ReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta_Home_and_Kitchen.jsonl.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(applianceLines))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	result, err := NewReader("").ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Home and Kitchen", result.Records[0].Category)
}

func TestReader_ReadFileMissing(t *testing.T) {
	_, err := NewReader("Toys").ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCategoryFromPath(t *testing.T) {
	assert.Equal(t, "Appliances", CategoryFromPath("/data/meta_Appliances.jsonl"))
	assert.Equal(t, "Toys and Games", CategoryFromPath("raw_meta_Toys_and_Games.jsonl.gz"))
	assert.Equal(t, "catalog", CategoryFromPath("catalog.json"))
}

func TestReader_ReadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta_Appliances.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(applianceLines), 0o600))

	r := NewReader("")

	rec, err := r.ReadLine(path, 2)
	require.NoError(t, err)
	assert.Equal(t, "Ice Tray", rec.Title)
	assert.Equal(t, "Appliances", rec.Category)

	_, err = r.ReadLine(path, 4)
	assert.ErrorIs(t, err, ErrUnpriced)

	_, err = r.ReadLine(path, 3)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = r.ReadLine(path, 99)
	assert.ErrorIs(t, err, ErrLineNotFound)

	_, err = r.ReadLine(path, 0)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

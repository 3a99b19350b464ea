package collector

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeadlineSentinel/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "h.tsv", "\ufefftimestamp\tsymbol\theadline\n"+
		"2024-05-03 17:00:00\tAAA\t\"Quoted, headline\"\n"+
		"2024-05-03 18:00:00\tBBB\n"+
		"2024-05-03 19:00:00\tCCC\tx\textra\n")

	tbl, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "symbol", "headline"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, "Quoted, headline", tbl.Rows[0][2])
	assert.Equal(t, []string{"2024-05-03 18:00:00", "BBB", ""}, tbl.Rows[1])
	assert.Len(t, tbl.Rows[2], 3)
}

func TestReadTable_DuplicateHeaders(t *testing.T) {
	path := writeFile(t, t.TempDir(), "h.tsv", "timestamp\tsymbol\tnote\tnote\tnote.1\tnote\n"+
		"t\tAAA\tfirst\tsecond\tthird\tfourth\n")

	tbl, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamp", "symbol", "note", "note.1", "note.1.1", "note.2"}, tbl.Columns)

	merged := model.Concat(tbl)
	assert.Equal(t, []string{"t", "AAA", "first", "second", "third", "fourth"}, merged.Rows[0])
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadHeadlines_ConcatByName(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "2023.tsv", "timestamp\tsymbol\theadline\n2023-01-03 08:00:00\tAAA\tone\n")
	b := writeFile(t, dir, "2024.tsv", "timestamp\theadline\tsymbol\tsource\n2024-01-03 08:00:00\ttwo\tBBB\twire\n")

	c := NewCollector([]string{a, b}, &MockPriceSource{})
	tbl, err := c.LoadHeadlines(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"timestamp", "symbol", "headline", "source"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"2023-01-03 08:00:00", "AAA", "one", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"2024-01-03 08:00:00", "BBB", "two", "wire"}, tbl.Rows[1])
}

func TestParsePriceTable(t *testing.T) {
	tbl := &model.Table{
		Columns: []string{"Date", "Ticker", "Close", "volume"},
		Rows: [][]string{
			{"2024-05-03", "AAA", "101.5", "10"},
			{"5/2/2024", "AAA", "100", "10"},
			{"", "AAA", "99", "10"},
			{"2024-05-01", "AAA", "", "10"},
			{"2024-04-30", "AAA", "NA", "10"},
			{"2024-04-29", "AAA", "NaN", "10"},
			{"2024-04-26", "AAA", "<NA>", "10"},
			{"2024-04-25", "AAA", "null", "10"},
			{"N/A", "AAA", "98", "10"},
		},
	}
	obs, err := ParsePriceTable(tbl)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	for _, o := range obs {
		assert.False(t, math.IsNaN(o.Close))
	}
	assert.Equal(t, model.PriceObservation{Symbol: "AAA", Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Close: 101.5}, obs[0])
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), obs[1].Date)
}

func TestParsePriceTable_SymbolFallbackSecondColumn(t *testing.T) {
	tbl := &model.Table{
		Columns: []string{"date", "name", "close"},
		Rows:    [][]string{{"2024-05-03", "AAA", "1"}},
	}
	obs, err := ParsePriceTable(tbl)
	require.NoError(t, err)
	assert.Equal(t, "AAA", obs[0].Symbol)
}

func TestParsePriceTable_Errors(t *testing.T) {
	_, err := ParsePriceTable(&model.Table{Columns: []string{"day", "symbol", "close"}})
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ParsePriceTable(&model.Table{Columns: []string{"date", "symbol", "price"}})
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = ParsePriceTable(&model.Table{
		Columns: []string{"date", "symbol", "close"},
		Rows:    [][]string{{"2024-05-03", "AAA", "abc"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	_, err = ParsePriceTable(&model.Table{
		Columns: []string{"date", "symbol", "close"},
		Rows:    [][]string{{"someday", "AAA", "1"}},
	})
	assert.Error(t, err)
}

func TestTSVPriceSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prices.tsv", "date\tsymbol\tclose\n2024-05-03\tAAA\t10\n2024-05-03\tBBB\t20\n")
	src := NewTSVPriceSource(path)
	assert.Equal(t, "tsv", src.Name())

	obs, err := src.LoadPrices(context.Background(), PriceRequest{})
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, "BBB", obs[1].Symbol)
}

func TestSQLitePriceSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE prices (date TEXT, symbol TEXT, close REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO prices VALUES ('2024-05-02', 'AAA', 10.5), ('2024-05-03', 'AAA', 11), ('2024-05-03', 'BBB', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	src, err := NewSQLitePriceSource(path, "")
	require.NoError(t, err)
	defer src.Close()

	obs, err := src.LoadPrices(context.Background(), PriceRequest{})
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 10.5, obs[0].Close)
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), obs[1].Date)
}

func TestSQLitePriceSource_MissingFile(t *testing.T) {
	_, err := NewSQLitePriceSource(filepath.Join(t.TempDir(), "missing.db"), "")
	assert.Error(t, err)
}

func TestCollector_LoadPricesWrapsError(t *testing.T) {
	c := NewCollector(nil, &MockPriceSource{Err: errors.New("boom")})
	_, err := c.LoadPrices(context.Background(), PriceRequest{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mock"))
}

package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeadlineSentinel/internal/model"
)

func TestCSVRecorder_RecordScan(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rec, err := NewCSVRecorder(dir)
	require.NoError(t, err)

	res := &model.ScanResult{
		RawDate: "5/6/2024",
		Table: &model.Table{
			Columns: []string{"timestamp", "symbol", "prevClose", "headline"},
			Rows: [][]string{
				{"2024-05-03 17:00:00", "AAA", "102", "Beats, raises"},
				{"2024-05-04 08:00:00", "ZZZ", "", "No stats"},
			},
		},
	}

	path, err := rec.RecordScan(res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "filtered_headlines_5-6-2024.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, res.Table.Columns, records[0])
	assert.Equal(t, "Beats, raises", records[1][3])
	assert.Equal(t, "", records[2][2])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestNoopRecorder(t *testing.T) {
	path, err := NewNoopRecorder().RecordScan(&model.ScanResult{})
	assert.NoError(t, err)
	assert.Empty(t, path)
}

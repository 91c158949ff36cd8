package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landuse.xlsx")

	require.NoError(t, WriteXLSX(testCollection(t), path, "landuse"))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "landuse", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "landuse", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "city", sheet.Rows[0].Cells[2].Value)
	assert.Equal(t, "Acme Steel Plant", sheet.Rows[1].Cells[1].Value)
}

func TestWriteXLSXEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, WriteXLSX(feature.NewCollection(), path, "landuse"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

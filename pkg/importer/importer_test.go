package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

func TestDecodeCSVEnglishHeaders(t *testing.T) {
	in := "Plate No,Vehicle Category,Manufacturer,Model,Model Year,Location\n" +
		"ABC 1,Car,Toyota,Camry,2018,Riyadh\n" +
		"ABC 2,Truck,Volvo,FH,,Jeddah\n"
	rows, err := DecodeCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.VehicleDescriptor{
		Category: "Car",
		Make:     "Toyota",
		Model:    "Camry",
		Year:     model.IntPtr(2018),
		Plate:    "ABC 1",
		Location: "Riyadh",
	}, rows[0])
	assert.Nil(t, rows[1].Year)
}

func TestDecodeCSVArabicHeaders(t *testing.T) {
	in := "البيان,الموقع,المالك\n" +
		"شاحنة ايسوزو NPR,الرياض,شركة\n"
	rows, err := DecodeCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "شاحنة ايسوزو NPR", rows[0].Description)
	assert.Equal(t, "الرياض", rows[0].Location)
	assert.Equal(t, "شركة", rows[0].Owner)
}

func TestDecodeCSVMissingColumns(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("Make,Year\nToyota,2018\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestDecodeJSONDropsZeroYear(t *testing.T) {
	rows, err := DecodeJSON(strings.NewReader(`[{"make":"Kia","model":"Rio","year":0},{"make":"Kia","model":"Rio","year":2012}]`))
	require.NoError(t, err)
	assert.Nil(t, rows[0].Year)
	assert.Equal(t, 2012, *rows[1].Year)
}

func TestParseYear(t *testing.T) {
	for in, want := range map[string]*int{
		"2018":   model.IntPtr(2018),
		"2018.0": model.IntPtr(2018),
		" 2015 ": model.IntPtr(2015),
		"":       nil,
		"0":      nil,
		"nan":    nil,
		"n/a":    nil,
	} {
		assert.Equal(t, want, ParseYear(in), in)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rows.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("make,model\nKia,Rio\n"), 0o600))
	rows, err := ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Rio", rows[0].Model)

	jsonPath := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"make":"Kia","model":"Picanto"}]`), 0o600))
	rows, err = ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Picanto", rows[0].Model)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

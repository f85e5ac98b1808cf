// Package importer reads vehicle rows from JSON or CSV files.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// ErrMissingColumns is returned when a CSV carries neither make and model
// nor a description column.
var ErrMissingColumns = errors.New("need make and model columns or a description column")

type column int

const (
	colCategory column = iota
	colMake
	colModel
	colYear
	colPlate
	colLocation
	colOwner
	colDescription
	numColumns
)

// aliases lists the accepted header names per column, Arabic included.
var aliases = [numColumns][]string{
	colCategory:    {"category", "vehicle category", "cat", "الفئة", "تصنيف", "نوع"},
	colMake:        {"manufacturer", "make", "brand", "الشركة", "المصنع", "الماركة"},
	colModel:       {"model", "vehicle model", "الموديل", "طراز"},
	colYear:        {"model year", "year", "سنة الصنع", "السنة"},
	colPlate:       {"plate no", "plate", "license", "registration", "رقم اللوحة", "اللوحة"},
	colLocation:    {"location", "site", "الموقع"},
	colOwner:       {"owner", "المالك"},
	colDescription: {"description", "details", "note", "البيان"},
}

// ReadFile decodes rows from path. Files ending in .csv are read as CSV,
// everything else as a JSON array.
func ReadFile(path string) ([]model.VehicleDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return DecodeCSV(f)
	}
	return DecodeJSON(f)
}

// DecodeJSON reads a JSON array of rows.
func DecodeJSON(r io.Reader) ([]model.VehicleDescriptor, error) {
	var rows []model.VehicleDescriptor
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	for i := range rows {
		if rows[i].Year != nil && *rows[i].Year == 0 {
			rows[i].Year = nil
		}
	}
	return rows, nil
}

// DecodeCSV reads rows from a CSV with a header line. Headers are matched
// case-insensitively, exactly first and then by containment.
func DecodeCSV(r io.Reader) ([]model.VehicleDescriptor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := matchColumns(header)
	if (idx[colMake] < 0 || idx[colModel] < 0) && idx[colDescription] < 0 {
		return nil, ErrMissingColumns
	}

	var rows []model.VehicleDescriptor
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(c column) string {
			i := idx[c]
			if i < 0 || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, model.VehicleDescriptor{
			Category:    get(colCategory),
			Make:        get(colMake),
			Model:       get(colModel),
			Year:        ParseYear(get(colYear)),
			Plate:       get(colPlate),
			Location:    get(colLocation),
			Owner:       get(colOwner),
			Description: get(colDescription),
		})
	}
	return rows, nil
}

// ParseYear converts a year cell to an integer. Empty, zero and
// non-numeric cells yield nil.
func ParseYear(s string) *int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	n := int(math.Trunc(f))
	if n == 0 {
		return nil
	}
	return &n
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func matchColumns(header []string) [numColumns]int {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(strings.TrimPrefix(h, "\ufeff"))
	}
	var idx [numColumns]int
	for c := column(0); c < numColumns; c++ {
		idx[c] = findColumn(norm, aliases[c])
	}
	return idx
}

func findColumn(norm []string, targets []string) int {
	for _, t := range targets {
		for i, h := range norm {
			if h == t {
				return i
			}
		}
	}
	for _, t := range targets {
		for i, h := range norm {
			if h != "" && (strings.Contains(h, t) || strings.Contains(t, h)) {
				return i
			}
		}
	}
	return -1
}

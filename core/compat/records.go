package compat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// DecodeRecords reads a JSON array of compatibility records. Records that
// carry a year_text but no numeric bounds get their bounds parsed from it.
func DecodeRecords(r io.Reader) ([]model.CompatibilityRecord, error) {
	var recs []model.CompatibilityRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	for i, rec := range recs {
		if rec.YearText != nil && rec.YearMin == nil && rec.YearMax == nil {
			rec = ParseYearText(*rec.YearText).Apply(rec)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		recs[i] = rec
	}
	return recs, nil
}

// ByAdapter splits recs per adapter, keeping input order within each group.
func ByAdapter(recs []model.CompatibilityRecord) map[string][]model.CompatibilityRecord {
	out := make(map[string][]model.CompatibilityRecord)
	for _, r := range recs {
		out[r.Adapter] = append(out[r.Adapter], r)
	}
	return out
}

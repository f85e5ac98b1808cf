package compat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// YearSpec is the parsed form of a textual year column.
type YearSpec struct {
	Text      *string
	Min       *int
	Max       *int
	OpenEnded bool
}

var (
	openEndedRe = regexp.MustCompile(`^\s*(\d{4})\s*>\s*$`)
	rangeRe     = regexp.MustCompile(`^\s*(\d{4})\s*-\s*(\d{4})\s*$`)
	singleRe    = regexp.MustCompile(`^\s*(\d{4})\s*$`)
	anyYearRe   = regexp.MustCompile(`(\d{4})`)
)

// ParseYearText parses the year column of an adapter list. Recognized forms
// are "2015>" (2015 and later), "2015-2018", "2015" and free text holding a
// four digit year (treated as a lower bound). Anything else yields no bounds.
func ParseYearText(raw string) YearSpec {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return YearSpec{}
	}
	spec := YearSpec{Text: &s}
	if m := openEndedRe.FindStringSubmatch(s); m != nil {
		spec.Min = atoi(m[1])
		spec.OpenEnded = true
		return spec
	}
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		spec.Min = atoi(m[1])
		spec.Max = atoi(m[2])
		return spec
	}
	if m := singleRe.FindStringSubmatch(s); m != nil {
		spec.Min = atoi(m[1])
		spec.Max = atoi(m[1])
		return spec
	}
	if m := anyYearRe.FindStringSubmatch(s); m != nil {
		spec.Min = atoi(m[1])
	}
	return spec
}

// Apply copies the parsed bounds onto rec.
func (y YearSpec) Apply(rec model.CompatibilityRecord) model.CompatibilityRecord {
	rec.YearText = y.Text
	rec.YearMin = y.Min
	rec.YearMax = y.Max
	rec.OpenEnded = y.OpenEnded
	return rec
}

func atoi(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// YearFits reports whether rec covers year. A nil year fits every record, as
// does a record without bounds. Combinations that cannot be evaluated, such
// as an upper bound alone, also fit.
func YearFits(year *int, rec model.CompatibilityRecord) bool {
	if year == nil {
		return true
	}
	y := *year
	switch {
	case rec.YearMin == nil && rec.YearMax == nil:
		return true
	case rec.OpenEnded && rec.YearMin != nil:
		return y >= *rec.YearMin
	case rec.YearMin != nil && rec.YearMax != nil:
		return y >= *rec.YearMin && y <= *rec.YearMax
	case rec.YearMin != nil:
		return y >= *rec.YearMin
	default:
		return true
	}
}

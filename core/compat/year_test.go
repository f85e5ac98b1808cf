package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

func TestYearFitsClosedRange(t *testing.T) {
	rec := model.CompatibilityRecord{YearMin: model.IntPtr(2015), YearMax: model.IntPtr(2018)}
	for y := 2015; y <= 2018; y++ {
		assert.True(t, YearFits(model.IntPtr(y), rec), "year %d", y)
	}
	assert.False(t, YearFits(model.IntPtr(2014), rec))
	assert.False(t, YearFits(model.IntPtr(2019), rec))
}

func TestYearFitsOpenEnded(t *testing.T) {
	rec := model.CompatibilityRecord{YearMin: model.IntPtr(2015), OpenEnded: true}
	assert.True(t, YearFits(model.IntPtr(2015), rec))
	assert.True(t, YearFits(model.IntPtr(2030), rec))
	assert.False(t, YearFits(model.IntPtr(2014), rec))
}

func TestYearFitsPermissiveCases(t *testing.T) {
	unbounded := model.CompatibilityRecord{}
	assert.True(t, YearFits(nil, unbounded))
	assert.True(t, YearFits(model.IntPtr(1990), unbounded))

	bounded := model.CompatibilityRecord{YearMin: model.IntPtr(2015), YearMax: model.IntPtr(2016)}
	assert.True(t, YearFits(nil, bounded), "absent year fits every record")

	maxOnly := model.CompatibilityRecord{YearMax: model.IntPtr(2010)}
	assert.True(t, YearFits(model.IntPtr(2020), maxOnly))

	minOnly := model.CompatibilityRecord{YearMin: model.IntPtr(2012)}
	assert.True(t, YearFits(model.IntPtr(2012), minOnly))
	assert.False(t, YearFits(model.IntPtr(2011), minOnly))
}

func TestParseYearText(t *testing.T) {
	cases := []struct {
		in       string
		min, max *int
		open     bool
		hasText  bool
	}{
		{"2015>", model.IntPtr(2015), nil, true, true},
		{" 2015 > ", model.IntPtr(2015), nil, true, true},
		{"2015-2018", model.IntPtr(2015), model.IntPtr(2018), false, true},
		{"2015 - 2018", model.IntPtr(2015), model.IntPtr(2018), false, true},
		{"2020", model.IntPtr(2020), model.IntPtr(2020), false, true},
		{"from 2012 (EU)", model.IntPtr(2012), nil, false, true},
		{"all years", nil, nil, false, true},
		{"", nil, nil, false, false},
		{"NaN", nil, nil, false, false},
	}
	for _, c := range cases {
		got := ParseYearText(c.in)
		assert.Equal(t, c.min, got.Min, "min for %q", c.in)
		assert.Equal(t, c.max, got.Max, "max for %q", c.in)
		assert.Equal(t, c.open, got.OpenEnded, "open for %q", c.in)
		assert.Equal(t, c.hasText, got.Text != nil, "text for %q", c.in)
	}
}

func TestMalformedYearFitsEverything(t *testing.T) {
	rec := ParseYearText("unknown").Apply(model.CompatibilityRecord{Adapter: AdapterLVCAN200, Brand: "KIA", Model: "RIO"})
	assert.Equal(t, "unknown", rec.YearLabel())
	assert.True(t, YearFits(model.IntPtr(1980), rec))
	assert.NoError(t, rec.Validate())
}

func TestFirstFit(t *testing.T) {
	recs := []model.CompatibilityRecord{
		ParseYearText("2010-2012").Apply(model.CompatibilityRecord{}),
		ParseYearText("2016>").Apply(model.CompatibilityRecord{}),
		ParseYearText("2018").Apply(model.CompatibilityRecord{}),
	}
	hit, ok := FirstFit(recs, model.IntPtr(2018))
	assert.True(t, ok)
	assert.Equal(t, "2016>", hit.YearLabel())

	_, ok = FirstFit(recs, model.IntPtr(2014))
	assert.False(t, ok)
}

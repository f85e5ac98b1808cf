package compat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordsParsesYearText(t *testing.T) {
	in := `[
		{"adapter":"LV-CAN200","brand":"TOYOTA","model":"CAMRY","year_text":"2015>"},
		{"adapter":"ALL-CAN300","brand":"VOLVO","model":"FH","year_text":"2012-2016"},
		{"adapter":"LV-CAN200","brand":"KIA","model":"RIO","year_min":2010,"year_max":2011}
	]`
	recs, err := DecodeRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.True(t, recs[0].OpenEnded)
	require.NotNil(t, recs[0].YearMin)
	assert.Equal(t, 2015, *recs[0].YearMin)
	assert.Nil(t, recs[0].YearMax)

	require.NotNil(t, recs[1].YearMax)
	assert.Equal(t, 2016, *recs[1].YearMax)

	assert.Equal(t, 2010, *recs[2].YearMin)

	groups := ByAdapter(recs)
	assert.Len(t, groups[AdapterLVCAN200], 2)
	assert.Len(t, groups[AdapterAllCAN300], 1)
	assert.Equal(t, "CAMRY", groups[AdapterLVCAN200][0].Model)
}

func TestDecodeRecordsErrors(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader(`{`))
	assert.Error(t, err)

	_, err = DecodeRecords(strings.NewReader(`[{"adapter":"LV-CAN200","brand":"","model":"X"}]`))
	assert.ErrorContains(t, err, "record 0")

	_, err = DecodeRecords(strings.NewReader(`[{"adapter":"LV-CAN200","brand":"A","model":"B","open_ended":true}]`))
	assert.Error(t, err)
}

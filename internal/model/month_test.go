package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Month
		wantErr bool
	}{
		{name: "year-month", input: "2024-03", want: NewMonth(2024, time.March)},
		{name: "full date", input: "2024-03-17", want: NewMonth(2024, time.March)},
		{name: "rfc3339", input: "2023-12-01T10:00:00Z", want: NewMonth(2023, time.December)},
		{name: "slash variant", input: "2024/07", want: NewMonth(2024, time.July)},
		{name: "surrounding whitespace", input: " 2024-01 ", want: NewMonth(2024, time.January)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "March", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonth_Arithmetic(t *testing.T) {
	jan := MustParseMonth("2024-01")
	dec := MustParseMonth("2023-12")

	assert.Equal(t, "2024-01", jan.String())
	assert.True(t, dec.Before(jan))
	assert.Equal(t, 1, MonthsBetween(dec, jan))
	assert.Equal(t, dec, jan.AddMonths(-1))
	assert.Equal(t, MustParseMonth("2025-02"), jan.AddMonths(13))
	assert.Equal(t, "Jan", jan.ShortName())
	assert.True(t, Month{}.IsZero())
	assert.Equal(t, "", Month{}.String())
}

func TestMonth_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		M Month `json:"m"`
	}

	data, err := json.Marshal(wrapper{M: MustParseMonth("2024-05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":"2024-05"}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MustParseMonth("2024-05"), decoded.M)
}

func TestRow_Period(t *testing.T) {
	explicit := Row{Month: MustParseMonth("2024-02"), Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, MustParseMonth("2024-02"), explicit.Period())

	fromDate := Row{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, MustParseMonth("2024-05"), fromDate.Period())

	assert.True(t, Row{}.Period().IsZero())
}

func TestDataset_Packs(t *testing.T) {
	ds := Dataset{Tables: []Table{
		{Pack: PackRevenue},
		{Pack: PackPNL},
		{Pack: PackRevenue},
	}}

	assert.Equal(t, []PackType{PackRevenue, PackPNL}, ds.Packs())
	assert.True(t, ds.Has(PackPNL))
	assert.False(t, ds.Has(PackLabor))
}

func TestEligibility_Allows(t *testing.T) {
	e := Eligibility{MinMonths: 6, RequiresData: []PackType{PackLabor}}

	assert.True(t, e.Allows(6, []PackType{PackPNL, PackLabor}))
	assert.False(t, e.Allows(5, []PackType{PackLabor}))
	assert.False(t, e.Allows(12, []PackType{PackPNL}))
	assert.True(t, Eligibility{}.Allows(0, nil))
}

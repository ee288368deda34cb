package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_Overlaps(t *testing.T) {
	d := MustParseDate

	cases := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"same single day", DateRange{d("2025-06-01"), d("2025-06-01")}, DateRange{d("2025-06-01"), d("2025-06-01")}, true},
		{"adjacent days", DateRange{d("2025-06-01"), d("2025-06-01")}, DateRange{d("2025-06-02"), d("2025-06-03")}, false},
		{"touching bounds", DateRange{d("2025-06-01"), d("2025-06-03")}, DateRange{d("2025-06-03"), d("2025-06-05")}, true},
		{"contained", DateRange{d("2025-06-01"), d("2025-06-10")}, DateRange{d("2025-06-04"), d("2025-06-05")}, true},
		{"disjoint", DateRange{d("2025-06-01"), d("2025-06-02")}, DateRange{d("2025-07-01"), d("2025-07-02")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestNewDateRange_MissingEndIsSingleDay(t *testing.T) {
	start := MustParseDate("2025-12-01")
	r := NewDateRange(start, nil)

	assert.Equal(t, []Date{start}, r.Days())

	zero := Date{}
	assert.Equal(t, []Date{start}, NewDateRange(start, &zero).Days())
}

func TestDateRange_DaysInclusive(t *testing.T) {
	end := MustParseDate("2025-03-02")
	r := NewDateRange(MustParseDate("2025-02-27"), &end)

	var got []string
	for _, d := range r.Days() {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, got)
}

func TestDate_JSONAndScan(t *testing.T) {
	d := MustParseDate("2025-06-01")

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d))

	var fromTime Date
	require.NoError(t, fromTime.Scan(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, fromTime.Equal(d))

	var fromText Date
	require.NoError(t, fromText.Scan([]byte("2025-06-01")))
	assert.True(t, fromText.Equal(d))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", v)

	_, err = ParseDate("01/06/2025")
	assert.Error(t, err)
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("venue_holder")
	require.NoError(t, err)
	assert.Equal(t, RoleVenueHolder, role)

	_, err = ParseUserRole("studio_owner")
	assert.Error(t, err)
}

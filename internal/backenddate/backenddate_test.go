package backenddate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wire(t time.Time) string { return Format(t) }

func TestToBackendDate_SeparatorsAgree(t *testing.T) {
	t.Parallel()

	want := `\/Date(1761055200000)\/`
	for _, in := range []string{
		"21.10.2025",
		"21/10/2025",
		"21-10-2025",
		"21.10.25",
		"21/10/25",
		"21-10-25",
		"2025-10-21",
		"2025/10/21",
		"2025.10.21",
		"2025-10/21",
		"  21.10.2025  ",
	} {
		assert.Equal(t, want, ToBackendDate(in), in)
	}
}

func TestToBackendDate_WrittenMonth(t *testing.T) {
	t.Parallel()

	want := ToBackendDate("21.10.2025")
	require.NotEmpty(t, want)

	for _, in := range []string{
		"21. Oktober 2025",
		"21 Okt 2025",
		"21 oktober 2025",
		"21. OKT 2025",
		"21. Oktober 25",
	} {
		assert.Equal(t, want, ToBackendDate(in), in)
	}
	assert.Equal(t, ToBackendDate("21. Oktober 2025"), ToBackendDate("21 Okt 2025"))
}

func TestToBackendDate_Umlauts(t *testing.T) {
	t.Parallel()

	want := ToBackendDate("03.03.2025")
	require.NotEmpty(t, want)
	assert.Equal(t, want, ToBackendDate("3. März 2025"))
	assert.Equal(t, want, ToBackendDate("3. MÄRZ 2025"))
	assert.Equal(t, want, ToBackendDate("3. Ma\u0308rz 2025"))
	assert.Equal(t, want, ToBackendDate("3 Maerz 2025"))
	assert.Equal(t, ToBackendDate("05.01.2026"), ToBackendDate("5. Jänner 2026"))
}

func TestToBackendDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"",
		"   ",
		"30.02.2025",
		"31.04.2025",
		"29.02.2025",
		"32.01.2025",
		"00.01.2025",
		"15.13.2025",
		"15.00.2025",
		"15.01.1899",
		"15.01.2101",
		"21. Octobre 2025",
		"21.10",
		"21.10.2025.1",
		"a.b.c",
		"..",
		"tomorrow",
		"2025-02-30",
	} {
		assert.Equal(t, "", ToBackendDate(in), in)
	}
}

func TestToBackendDate_LeapDay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\/Date(1709211600000)\/`, ToBackendDate("29.02.2024"))
}

func TestToBackendDate_SeasonalOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"15.06.2025", time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)},
		{"15.01.2025", time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC)},
		// 2025 changeovers are on March 30 and October 26.
		{"29.03.2025", time.Date(2025, 3, 29, 13, 0, 0, 0, time.UTC)},
		{"30.03.2025", time.Date(2025, 3, 30, 14, 0, 0, 0, time.UTC)},
		{"25.10.2025", time.Date(2025, 10, 25, 14, 0, 0, 0, time.UTC)},
		{"26.10.2025", time.Date(2025, 10, 26, 13, 0, 0, 0, time.UTC)},
		{"24.12.2025", time.Date(2025, 12, 24, 13, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, wire(tt.want), ToBackendDate(tt.in))
		})
	}

	assert.Equal(t, `\/Date(1749996000000)\/`, ToBackendDate("15.06.2025"))
	assert.Equal(t, `\/Date(1736946000000)\/`, ToBackendDate("15.01.2025"))
}

func TestParse_TwoDigitYearsAre2000s(t *testing.T) {
	t.Parallel()

	d, ok := Parse("01.02.99")
	require.True(t, ok)
	assert.Equal(t, Date{Year: 2099, Month: time.February, Day: 1}, d)

	d, ok = Parse("1/2/05")
	require.True(t, ok)
	assert.Equal(t, "2005-02-01", d.String())
}

func TestParse_LeadingInteger(t *testing.T) {
	t.Parallel()

	d, ok := Parse("21.10.2025 (KW 43)")
	require.True(t, ok)
	assert.Equal(t, "2025-10-21", d.String())

	_, ok = Parse("21..2025")
	assert.False(t, ok)
}

func TestLastSunday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year  int
		month time.Month
		want  time.Time
	}{
		{2025, time.March, time.Date(2025, 3, 30, 2, 0, 0, 0, time.UTC)},
		{2025, time.October, time.Date(2025, 10, 26, 2, 0, 0, 0, time.UTC)},
		{2024, time.March, time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC)},
		{2024, time.October, time.Date(2024, 10, 27, 2, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LastSunday(tt.year, tt.month))
		assert.Equal(t, time.Sunday, LastSunday(tt.year, tt.month).Weekday())
	}
}

func TestIsSummerTime_Boundaries(t *testing.T) {
	t.Parallel()

	start := LastSunday(2025, time.March)
	end := LastSunday(2025, time.October)

	assert.True(t, IsSummerTime(start))
	assert.False(t, IsSummerTime(start.Add(-time.Millisecond)))
	assert.True(t, IsSummerTime(end.Add(-time.Millisecond)))
	assert.False(t, IsSummerTime(end))
}

func TestLookupMonth(t *testing.T) {
	t.Parallel()

	m, ok := LookupMonth("SEPT")
	require.True(t, ok)
	assert.Equal(t, time.September, m)

	_, ok = LookupMonth("Brumaire")
	assert.False(t, ok)
}

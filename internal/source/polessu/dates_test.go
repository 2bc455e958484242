package polessu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var autumn = time.Date(2024, time.October, 15, 12, 0, 0, 0, time.UTC)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		weekStart string
		day       string
		want      string
	}{
		{"02.09", "Wednesday", "04.09"},
		{"02.09", "Понедельник", "02.09"},
		{"02.09", "Воскресенье", "08.09"},
		{"30.09", "Четверг", "03.10"},
		{"28.10", "СУББОТА", "02.11"},
		{"02.09", " среда ", "04.09"},
	}

	for _, tt := range tests {
		t.Run(tt.weekStart+" "+tt.day, func(t *testing.T) {
			got, err := ResolveDate(tt.weekStart, tt.day, autumn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDate_OffsetMatchesWeekday(t *testing.T) {
	days := []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)

	for offset, day := range days {
		assert.Equal(t, offset, WeekdayOffset(day))

		got, err := ResolveDate("02.09", day, autumn)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, offset).Format("02.01"), got)
	}
}

func TestResolveDate_UnknownWeekday(t *testing.T) {
	assert.Equal(t, -1, WeekdayOffset("Funday"))

	_, err := ResolveDate("02.09", "Funday", autumn)
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestResolveDate_BadWeekStart(t *testing.T) {
	_, err := ResolveDate("2.9", "Понедельник", autumn)
	assert.ErrorIs(t, err, ErrBadWeekStart)

	_, err = ResolveDate("31.02", "Понедельник", autumn)
	assert.ErrorIs(t, err, ErrBadWeekStart)
}

func TestResolveDate_YearBoundary(t *testing.T) {
	january := time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)
	december := time.Date(2024, time.December, 28, 0, 0, 0, 0, time.UTC)

	// Week of 30.12.2024 read in January 2025.
	got, err := ResolveDate("30.12", "Среда", january)
	require.NoError(t, err)
	assert.Equal(t, "01.01", got)

	// Week of 30.12.2024 read in December 2024.
	got, err = ResolveDate("30.12", "Среда", december)
	require.NoError(t, err)
	assert.Equal(t, "01.01", got)

	assert.Equal(t, 2024, weekYear(time.December, january))
	assert.Equal(t, 2025, weekYear(time.January, december))
	assert.Equal(t, 2024, weekYear(time.September, autumn))
}

func TestResolveDate_LeapDay(t *testing.T) {
	leap := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)

	got, err := ResolveDate("26.02", "Четверг", leap)
	require.NoError(t, err)
	assert.Equal(t, "29.02", got)
}

package scorecard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscard/internal/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// referencePairs are the boundary dates from the reference scorecard
// configuration: six contiguous 30-day windows ending 2019-10-26.
func referencePairs() [WindowCount]DatePair {
	return [WindowCount]DatePair{
		{Start: day(2019, 9, 27), End: day(2019, 10, 26)},
		{Start: day(2019, 8, 28), End: day(2019, 9, 26)},
		{Start: day(2019, 7, 29), End: day(2019, 8, 27)},
		{Start: day(2019, 6, 29), End: day(2019, 7, 28)},
		{Start: day(2019, 5, 30), End: day(2019, 6, 28)},
		{Start: day(2019, 4, 30), End: day(2019, 5, 29)},
	}
}

func TestWindowsFromDates(t *testing.T) {
	ws, err := WindowsFromDates(referencePairs())
	require.NoError(t, err)

	assert.Equal(t, "M1", ws[0].Label)
	assert.Equal(t, "M6", ws[5].Label)
	assert.Equal(t, 30, ws[0].Days())

	// Tiling invariant: End(Mi) + 1 day = Start(Mi-1).
	for i := 1; i < WindowCount; i++ {
		assert.Equal(t, ws[i-1].Start, ws[i].End.AddDate(0, 0, 1),
			"windows %s/%s must tile contiguously", ws[i].Label, ws[i-1].Label)
	}

	start, end := ws.Span()
	assert.Equal(t, day(2019, 4, 30), start)
	assert.Equal(t, day(2019, 10, 26), end)
}

func TestWindowsFromDatesValidation(t *testing.T) {
	t.Run("gap between windows", func(t *testing.T) {
		pairs := referencePairs()
		pairs[1].End = pairs[1].End.AddDate(0, 0, -1)
		_, err := WindowsFromDates(pairs)
		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
		assert.Contains(t, err.Error(), "not contiguous")
	})

	t.Run("end before start", func(t *testing.T) {
		pairs := referencePairs()
		pairs[0].Start, pairs[0].End = pairs[0].End, pairs[0].Start
		_, err := WindowsFromDates(pairs)
		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
	})

	t.Run("missing boundary", func(t *testing.T) {
		pairs := referencePairs()
		pairs[3].Start = time.Time{}
		_, err := WindowsFromDates(pairs)
		require.Error(t, err)
		assert.True(t, errors.IsConfiguration(err))
	})
}

func TestTileWindows(t *testing.T) {
	ws, err := TileWindows(day(2019, 10, 26), 0, 30)
	require.NoError(t, err)

	want, err := WindowsFromDates(referencePairs())
	require.NoError(t, err)

	// The reference catalog is six contiguous 30-day windows, so tiling
	// from its M1 end reproduces it exactly.
	assert.Equal(t, want, ws)

	for i := 0; i < WindowCount; i++ {
		assert.Equal(t, 30, ws[i].Days())
	}

	_, err = TileWindows(time.Time{}, 0, 30)
	assert.True(t, errors.IsConfiguration(err))
	_, err = TileWindows(day(2019, 10, 26), 0, 0)
	assert.True(t, errors.IsConfiguration(err))
	_, err = TileWindows(day(2019, 10, 26), -1, 30)
	assert.True(t, errors.IsConfiguration(err))
}

func TestWindowBoundariesInclusive(t *testing.T) {
	ws, err := WindowsFromDates(referencePairs())
	require.NoError(t, err)

	m1 := ws[0]
	assert.True(t, m1.Contains(m1.End), "end date is inside the window")
	assert.True(t, m1.Contains(m1.Start), "start date is inside the window")
	assert.False(t, m1.Contains(m1.End.AddDate(0, 0, 1)), "one day after end is outside")
	assert.False(t, m1.Contains(m1.Start.AddDate(0, 0, -1)), "one day before start is outside")
}

func TestWindowSetIndex(t *testing.T) {
	ws, err := WindowsFromDates(referencePairs())
	require.NoError(t, err)

	tests := []struct {
		date time.Time
		want int
	}{
		{day(2019, 10, 26), 0},
		{day(2019, 9, 27), 0},
		{day(2019, 9, 26), 1},
		{day(2019, 4, 30), 5},
		{day(2019, 4, 29), -1},
		{day(2019, 10, 27), -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ws.Index(tt.date), "date %s", tt.date.Format("2006-01-02"))
	}
}

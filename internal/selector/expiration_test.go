package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsMonthly(t *testing.T) {
	assert.True(t, IsMonthly("20240315"))  // third Friday of March 2024
	assert.True(t, IsMonthly("20240419"))  // third Friday of April 2024
	assert.False(t, IsMonthly("20240322")) // fourth Friday
	assert.False(t, IsMonthly("20240318")) // a Monday
	assert.False(t, IsMonthly("garbage"))
}

func TestPickStraddleExpirationPrefersMonthly(t *testing.T) {
	today := testDay("2024-03-05")
	expirations := []string{"20240315", "20240322", "20240419"}

	// Earnings in 10 days: 20240315 (10 dte) does not clear the announcement,
	// 20240322 (17 dte) is the nearest weekly, 20240419 (45 dte) is monthly.
	picked, ok := PickStraddleExpiration(expirations, 10, today)
	require.True(t, ok)
	assert.Equal(t, "20240419", picked.Date)
	assert.Equal(t, 45, picked.DTE)
}

func TestPickStraddleExpirationFallsBackToNearest(t *testing.T) {
	today := testDay("2024-03-05")
	expirations := []string{"20240315", "20240322", "20240328"}

	picked, ok := PickStraddleExpiration(expirations, 10, today)
	require.True(t, ok)
	assert.Equal(t, "20240322", picked.Date)
	assert.Equal(t, 17, picked.DTE)
}

func TestPickStraddleExpirationNoneInWindow(t *testing.T) {
	today := testDay("2024-03-05")

	// Everything expires before the announcement clears.
	_, ok := PickStraddleExpiration([]string{"20240308", "20240315"}, 10, today)
	assert.False(t, ok)

	_, ok = PickStraddleExpiration(nil, 10, today)
	assert.False(t, ok)
}

func TestPickCalendarLegs(t *testing.T) {
	today := testDay("2024-03-05")
	expirations := []string{"20240315", "20240322", "20240419", "20240517"}

	// Earnings in 10 days: front window is 7-17 dte, back is front+25..+35.
	front, back, ok := PickCalendarLegs(expirations, 10, today)
	require.True(t, ok)
	assert.Equal(t, "20240315", front.Date)
	assert.Equal(t, 10, front.DTE)
	assert.Equal(t, "20240419", back.Date)
	assert.Equal(t, 45, back.DTE)
}

func TestPickCalendarLegsFrontWindowFloorsAtOne(t *testing.T) {
	today := testDay("2024-03-05")

	// Earnings in 2 days: front window floors at 1 dte rather than going
	// negative.
	front, back, ok := PickCalendarLegs([]string{"20240306", "20240308", "20240405"}, 2, today)
	require.True(t, ok)
	assert.Equal(t, "20240306", front.Date)
	assert.Equal(t, 1, front.DTE)
	assert.Equal(t, "20240405", back.Date)
}

func TestPickCalendarLegsMissingBack(t *testing.T) {
	today := testDay("2024-03-05")

	_, _, ok := PickCalendarLegs([]string{"20240315", "20240322"}, 10, today)
	assert.False(t, ok, "no expiration 25-35 days behind the front leg")
}

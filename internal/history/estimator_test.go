package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EarningsSentinel/internal/model"
)

type fakeEvents struct {
	events []model.EarningsEvent
}

func (f *fakeEvents) Get(symbol string, from, to time.Time) []model.EarningsEvent {
	return f.events
}

type fakeBars struct {
	bars []model.OHLCV
	err  error
}

func (f *fakeBars) DailyBars(symbol string, end time.Time, days int) ([]model.OHLCV, error) {
	return f.bars, f.err
}

func utcDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bar(date string, open, close float64) model.OHLCV {
	return model.OHLCV{Time: utcDay(date), Open: open, Close: close}
}

func fixedNow(s string) func() time.Time {
	return func() time.Time { return utcDay(s) }
}

func TestRealizedMoveBeforeMarket(t *testing.T) {
	// bmo: the event day's open gaps against the prior session's close.
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "AAPL", Date: "2024-02-02", Hour: model.HourBeforeMarket},
		}},
		&fakeBars{bars: []model.OHLCV{
			bar("2024-02-01", 99, 100),
			bar("2024-02-02", 110, 108),
		}},
	)
	est.Now = fixedNow("2024-04-20")

	moves := est.RealizedMoves("AAPL")
	require.Len(t, moves, 1)
	assert.Equal(t, "2024-02-02", moves[0].EarningsDate)
	assert.InDelta(t, 10.0, moves[0].RealizedMovePct, 0.001)
}

func TestRealizedMoveIntradayBarTimestamps(t *testing.T) {
	// Live bars carry intraday timestamps; the event session must still match
	// on calendar date, not sort one session back.
	intraday := func(date string, open, close float64) model.OHLCV {
		return model.OHLCV{Time: utcDay(date).Add(13*time.Hour + 30*time.Minute), Open: open, Close: close}
	}
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "AAPL", Date: "2024-02-02", Hour: model.HourBeforeMarket},
		}},
		&fakeBars{bars: []model.OHLCV{
			intraday("2024-01-31", 98, 99),
			intraday("2024-02-01", 99, 100),
			intraday("2024-02-02", 110, 108),
		}},
	)
	est.Now = fixedNow("2024-04-20")

	moves := est.RealizedMoves("AAPL")
	require.Len(t, moves, 1)
	assert.Equal(t, "2024-02-02", moves[0].EarningsDate)
	assert.InDelta(t, 10.0, moves[0].RealizedMovePct, 0.001)
}

func TestRealizedMoveAfterMarket(t *testing.T) {
	// amc: the next session's open gaps against the event day's close.
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "MSFT", Date: "2024-02-02", Hour: model.HourAfterMarket},
		}},
		&fakeBars{bars: []model.OHLCV{
			bar("2024-02-02", 101, 100),
			bar("2024-02-05", 95, 96),
		}},
	)
	est.Now = fixedNow("2024-04-20")

	moves := est.RealizedMoves("MSFT")
	require.Len(t, moves, 1)
	assert.InDelta(t, 5.0, moves[0].RealizedMovePct, 0.001)
}

func TestRealizedMoveUnspecifiedHourUsesCloseToClose(t *testing.T) {
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "NFLX", Date: "2024-02-02"},
		}},
		&fakeBars{bars: []model.OHLCV{
			bar("2024-02-02", 101, 100),
			bar("2024-02-05", 102, 103),
		}},
	)
	est.Now = fixedNow("2024-04-20")

	moves := est.RealizedMoves("NFLX")
	require.Len(t, moves, 1)
	assert.InDelta(t, 3.0, moves[0].RealizedMovePct, 0.001)
}

func TestRealizedMoveWeekendEventSnapsToPriorSession(t *testing.T) {
	// Event dated Saturday: the nearest session at-or-before is Friday.
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "AMD", Date: "2024-02-03", Hour: model.HourAfterMarket},
		}},
		&fakeBars{bars: []model.OHLCV{
			bar("2024-02-02", 101, 100), // Friday
			bar("2024-02-05", 104, 105), // Monday
		}},
	)
	est.Now = fixedNow("2024-04-20")

	moves := est.RealizedMoves("AMD")
	require.Len(t, moves, 1)
	assert.InDelta(t, 4.0, moves[0].RealizedMovePct, 0.001)
}

func TestTimingBarsMissingFallsBackToCloseToClose(t *testing.T) {
	// bmo with no prior bar still has a following session, so the
	// close-to-close fallback applies: |103-101|/101.
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "X", Date: "2024-02-01", Hour: model.HourBeforeMarket},
		}},
		&fakeBars{bars: []model.OHLCV{
			bar("2024-02-01", 100, 101),
			bar("2024-02-02", 102, 103),
		}},
	)
	est.Now = fixedNow("2024-04-20")

	moves := est.RealizedMoves("X")
	require.Len(t, moves, 1)
	assert.InDelta(t, 1.98, moves[0].RealizedMovePct, 0.001)
}

func TestUncomputableEventsAreDropped(t *testing.T) {
	// amc on the final bar: neither the timing-specific formula nor the
	// fallback has a following session, so the event is silently dropped.
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "X", Date: "2024-02-02", Hour: model.HourAfterMarket},
		}},
		&fakeBars{bars: []model.OHLCV{
			bar("2024-02-01", 100, 101),
			bar("2024-02-02", 102, 103),
		}},
	)
	est.Now = fixedNow("2024-04-20")

	assert.Empty(t, est.RealizedMoves("X"))
}

func TestFutureEventsExcluded(t *testing.T) {
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{
			{Symbol: "X", Date: "2024-05-01", Hour: model.HourAfterMarket},
		}},
		&fakeBars{bars: []model.OHLCV{bar("2024-02-02", 100, 100)}},
	)
	est.Now = fixedNow("2024-04-20")

	assert.Empty(t, est.RealizedMoves("X"))
}

func TestMostRecentEventsFirstCappedAtMax(t *testing.T) {
	events := []model.EarningsEvent{
		{Symbol: "X", Date: "2023-05-02"},
		{Symbol: "X", Date: "2023-08-01"},
		{Symbol: "X", Date: "2023-11-01"},
		{Symbol: "X", Date: "2024-02-01"},
	}
	bars := []model.OHLCV{
		bar("2023-05-02", 100, 100), bar("2023-05-03", 101, 102),
		bar("2023-08-01", 100, 100), bar("2023-08-02", 103, 103),
		bar("2023-11-01", 100, 100), bar("2023-11-02", 104, 104),
		bar("2024-02-01", 100, 100), bar("2024-02-02", 105, 105),
	}
	est := NewEstimator(&fakeEvents{events: events}, &fakeBars{bars: bars})
	est.Now = fixedNow("2024-04-20")
	est.MaxEvents = 2

	moves := est.RealizedMoves("X")
	require.Len(t, moves, 2)
	assert.Equal(t, "2024-02-01", moves[0].EarningsDate)
	assert.Equal(t, "2023-11-01", moves[1].EarningsDate)
}

func TestBarFetchFailureYieldsNoMoves(t *testing.T) {
	est := NewEstimator(
		&fakeEvents{events: []model.EarningsEvent{{Symbol: "X", Date: "2024-02-02"}}},
		&fakeBars{err: errors.New("gateway down")},
	)
	est.Now = fixedNow("2024-04-20")

	assert.Empty(t, est.RealizedMoves("X"))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionQuoteMid(t *testing.T) {
	cases := []struct {
		name string
		q    OptionQuote
		want float64
		ok   bool
	}{
		{"both sides", OptionQuote{Bid: 4.8, Ask: 5.2}, 5.0, true},
		{"last fallback", OptionQuote{Last: 3.1}, 3.1, true},
		{"bid only", OptionQuote{Bid: 2.0}, 2.0, true},
		{"ask only", OptionQuote{Ask: 2.4}, 2.4, true},
		{"both beat last", OptionQuote{Bid: 4.0, Ask: 6.0, Last: 9.9}, 5.0, true},
		{"empty", OptionQuote{}, 0, false},
	}
	for _, c := range cases {
		got, ok := c.q.Mid()
		assert.Equal(t, c.ok, ok, c.name)
		assert.InDelta(t, c.want, got, 0.0001, c.name)
	}
}

func TestNormalizeHour(t *testing.T) {
	assert.Equal(t, HourBeforeMarket, NormalizeHour("bmo"))
	assert.Equal(t, HourBeforeMarket, NormalizeHour(" BMO "))
	assert.Equal(t, HourAfterMarket, NormalizeHour("AMC"))
	assert.Equal(t, HourUnspecified, NormalizeHour("dmh"))
	assert.Equal(t, HourUnspecified, NormalizeHour(""))
}

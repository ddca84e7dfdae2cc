package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestATMStrike(t *testing.T) {
	cases := []struct {
		price float64
		want  float64
	}{
		{42.00, 42.5},
		{41.24, 40.0},
		{30.00, 30.0},
		{49.99, 50.0},
		{50.00, 50.0},
		{187.43, 185.0},
		{187.50, 190.0},
		{199.99, 200.0},
		{402.00, 400.0},
		{405.00, 410.0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ATMStrike(c.price), "price %.2f", c.price)
	}
}

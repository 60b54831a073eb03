package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPrice_Examples(t *testing.T) {
	q := Price(decimal.RequireFromString("50.00"), decimal.RequireFromString("10.00"), d("2025-06-01"), d("2025-06-04"))
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, "160.00", q.Total.StringFixed(2))

	q = Price(decimal.RequireFromString("75.00"), decimal.Zero, d("2025-07-10"), d("2025-07-10"))
	assert.Equal(t, 1, q.Nights)
	assert.Equal(t, "75.00", q.Total.StringFixed(2))
}

func TestPrice_IsExactForCents(t *testing.T) {
	q := Price(decimal.RequireFromString("0.10"), decimal.RequireFromString("0.20"), d("2025-01-01"), d("2025-01-04"))
	assert.True(t, q.Total.Equal(decimal.RequireFromString("0.5")))

	q = Price(decimal.RequireFromString("33.335"), decimal.Zero, d("2025-01-01"), d("2025-01-04"))
	assert.True(t, q.Total.Equal(decimal.RequireFromString("100.005")), "stored total must not be rounded")
	assert.Equal(t, "100.01", q.Total.StringFixed(2))
}

func TestNights_CalendarDays(t *testing.T) {
	in := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, Nights(in, out))

	assert.Equal(t, 1, Nights(d("2025-06-05"), d("2025-06-01")))
	assert.Equal(t, 30, Nights(d("2025-03-01"), d("2025-03-31")))
	assert.Equal(t, 366, Nights(d("2024-01-01"), d("2025-01-01")))
}

func TestNights_CenturiesLongStay(t *testing.T) {
	assert.Equal(t, 136235, Nights(d("2027-01-01"), d("2400-01-01")))

	q := Price(decimal.RequireFromString("1.00"), decimal.RequireFromString("5.00"), d("2027-01-01"), d("2400-01-01"))
	assert.Equal(t, 136235, q.Nights)
	assert.Equal(t, "136240.00", q.Total.StringFixed(2))
}

package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the computed price of a stay. Values are exact; round only when
// displaying.
type Quote struct {
	Nights      int             `json:"nights"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	CleaningFee decimal.Decimal `json:"cleaning_fee"`
	Total       decimal.Decimal `json:"total"`
}

const secondsPerDay = 24 * 60 * 60

// Nights is the calendar-day difference between the two dates, never less
// than one. Days are counted on Unix seconds since a time.Duration cannot
// span more than about 292 years.
func Nights(checkIn, checkOut time.Time) int {
	n := int((calendarDay(checkOut).Unix() - calendarDay(checkIn).Unix()) / secondsPerDay)
	if n < 1 {
		return 1
	}
	return n
}

// Price computes rate * nights + cleaningFee.
func Price(rate, cleaningFee decimal.Decimal, checkIn, checkOut time.Time) Quote {
	nights := Nights(checkIn, checkOut)
	return Quote{
		Nights:      nights,
		NightlyRate: rate,
		CleaningFee: cleaningFee,
		Total:       rate.Mul(decimal.NewFromInt(int64(nights))).Add(cleaningFee),
	}
}

func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package booking

import (
	"math"
	"time"
)

// stayDateLayout is the wire format for check-in/check-out dates.
const stayDateLayout = "2006-01-02"

// ParseStayDate parses a "YYYY-MM-DD" date in UTC.
func ParseStayDate(s string) (time.Time, error) {
	return time.ParseInLocation(stayDateLayout, s, time.UTC)
}

// Nights is the number of nights between check-in and check-out, rounding
// partial days up. Inputs are expected to be midnight-aligned UTC dates.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// RoundCents rounds a monetary amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// StayTotal computes the full price of a stay.
func StayTotal(nights int, pricePerNight float64) float64 {
	return RoundCents(float64(nights) * pricePerNight)
}

// DepositSplit divides a total into the deposit due at checkout and the
// remaining balance. A percentage of 0 or 100 means the full amount is due.
func DepositSplit(total float64, depositPercentage int) (deposit, remaining float64) {
	if depositPercentage <= 0 || depositPercentage >= 100 {
		return total, 0
	}
	deposit = RoundCents(total * float64(depositPercentage) / 100)
	remaining = RoundCents(total - deposit)
	return deposit, remaining
}

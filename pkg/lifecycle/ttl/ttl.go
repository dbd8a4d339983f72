// Package ttl computes the remaining lifetime of a certificate and
// decides whether it is due for rotation.
package ttl

import (
	"math"
	"time"
)

// RemainingHours returns the lifetime left at now. An expired or
// unknown expiration yields 0. Under one hour the value keeps two
// decimal places; above that it is floored to whole hours.
func RemainingHours(expiresAt int64, now time.Time) float64 {
	if expiresAt <= 0 {
		return 0
	}

	hours := time.Unix(expiresAt, 0).Sub(now).Hours()
	if hours <= 0 {
		return 0
	}
	if hours < 1 {
		return math.Round(hours*100) / 100
	}
	return math.Floor(hours)
}

// IsDueForRotation reports whether a certificate with the given
// remaining lifetime falls inside the rotation window. Expired
// certificates are never rotated, they are swept instead.
func IsDueForRotation(remainingHours float64, thresholdDays int) bool {
	return remainingHours > 0 && remainingHours/24 <= float64(thresholdDays)
}

package utils

import (
	"math"
	"regexp"
)

var (
	// emailPattern approximates the platform EMAIL_ADDRESS matcher.
	emailPattern        = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)
	phonePattern        = regexp.MustCompile(`^[0-9]{10}$`)
	registrationPattern = regexp.MustCompile(`^[A-Z]{3} ?[0-9]{3}[A-Z]$`)
	shortCodePattern    = regexp.MustCompile(`^[0-9]{5,6}$`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhoneNumber accepts exactly 10 ASCII digits, e.g. 0712345678.
func ValidatePhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateVehicleRegistration accepts Kenyan plates such as "KAA123A" or "KAA 123A".
func ValidateVehicleRegistration(registration string) bool {
	return registrationPattern.MatchString(registration)
}

// ValidateMpesaShortCode accepts a 5 or 6 digit till/paybill number.
func ValidateMpesaShortCode(shortCode string) bool {
	return shortCodePattern.MatchString(shortCode)
}

// ValidateFare accepts finite, non-negative amounts.
func ValidateFare(fare float64) bool {
	return !math.IsNaN(fare) && !math.IsInf(fare, 0) && fare >= 0
}

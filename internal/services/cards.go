package services

import (
	"strconv"
	"strings"
	"time"
)

// CardInfo is the only card data the backend keeps: brand and last four
// digits. The full PAN and CVV never reach the store.
type CardInfo struct {
	Brand       string
	Last4Digits string
}

// ValidateCard checks number (Luhn + length), CVV and MM/YY expiry. The
// first failing field decides the returned error.
func ValidateCard(number, cvv, expiry string, now time.Time) (*CardInfo, error) {
	digits := strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
	if len(digits) < 12 || len(digits) > 19 || !allDigits(digits) || !luhnValid(digits) {
		return nil, ErrInvalidCardNumber
	}

	brand := detectBrand(digits)

	cvvLen := 3
	if brand == "amex" {
		cvvLen = 4
	}
	if len(cvv) != cvvLen || !allDigits(cvv) {
		return nil, ErrInvalidCVV
	}

	if !expiryValid(expiry, now) {
		return nil, ErrInvalidExpiry
	}

	return &CardInfo{
		Brand:       brand,
		Last4Digits: digits[len(digits)-4:],
	}, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func detectBrand(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "visa"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "amex"
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return "mastercard"
	case len(digits) >= 2 && digits[0] == '2' && digits[1] >= '2' && digits[1] <= '7':
		return "mastercard"
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return "discover"
	default:
		return "unknown"
	}
}

// expiryValid accepts MM/YY or MM/YYYY and requires the card to be valid
// through the end of the stated month, compared in UTC.
func expiryValid(expiry string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	if len(parts[1]) == 2 {
		year += 2000
	} else if len(parts[1]) != 4 {
		return false
	}

	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return now.UTC().Before(endOfMonth)
}

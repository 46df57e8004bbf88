package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardTestNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func TestValidateCardBrands(t *testing.T) {
	cases := []struct {
		name   string
		number string
		cvv    string
		brand  string
	}{
		{"visa", "4111111111111111", "123", "visa"},
		{"mastercard", "5555555555554444", "123", "mastercard"},
		{"mastercard 2-series", "2221000000000009", "123", "mastercard"},
		{"amex", "378282246310005", "1234", "amex"},
		{"discover", "6011111111111117", "123", "discover"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := ValidateCard(tc.number, tc.cvv, "12/30", cardTestNow)
			require.NoError(t, err)
			assert.Equal(t, tc.brand, info.Brand)
			assert.Equal(t, tc.number[len(tc.number)-4:], info.Last4Digits)
		})
	}
}

func TestValidateCardNumberFailures(t *testing.T) {
	for _, number := range []string{
		"4111111111111112", // bad Luhn
		"41111111",         // too short
		"4111abcd11111111", // non-digit
		"",
	} {
		_, err := ValidateCard(number, "123", "12/30", cardTestNow)
		assert.ErrorIs(t, err, ErrInvalidCardNumber, "number %q", number)
	}
}

func TestValidateCardCVV(t *testing.T) {
	_, err := ValidateCard("4111111111111111", "12", "12/30", cardTestNow)
	assert.ErrorIs(t, err, ErrInvalidCVV)

	_, err = ValidateCard("4111111111111111", "12a", "12/30", cardTestNow)
	assert.ErrorIs(t, err, ErrInvalidCVV)

	// Amex takes four digits, others three.
	_, err = ValidateCard("378282246310005", "123", "12/30", cardTestNow)
	assert.ErrorIs(t, err, ErrInvalidCVV)

	_, err = ValidateCard("4111111111111111", "1234", "12/30", cardTestNow)
	assert.ErrorIs(t, err, ErrInvalidCVV)
}

func TestValidateCardExpiry(t *testing.T) {
	valid := []string{"12/30", "08/2026", "12/2030"}
	for _, exp := range valid {
		_, err := ValidateCard("4111111111111111", "123", exp, cardTestNow)
		assert.NoError(t, err, "expiry %q", exp)
	}

	invalid := []string{"07/26", "13/30", "00/30", "1230", "12/3", "aa/bb"}
	for _, exp := range invalid {
		_, err := ValidateCard("4111111111111111", "123", exp, cardTestNow)
		assert.ErrorIs(t, err, ErrInvalidExpiry, "expiry %q", exp)
	}

	// Valid through the end of the stated month.
	_, err := ValidateCard("4111111111111111", "123", "08/26", cardTestNow)
	assert.NoError(t, err)
}

func TestValidateCardAcceptsSpacesAndDashes(t *testing.T) {
	info, err := ValidateCard("4111 1111 1111 1111", "123", "12/30", cardTestNow)
	require.NoError(t, err)
	assert.Equal(t, "1111", info.Last4Digits)

	info, err = ValidateCard("4111-1111-1111-1111", "123", "12/30", cardTestNow)
	require.NoError(t, err)
	assert.Equal(t, "visa", info.Brand)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package phone normalizes Kenyan phone numbers for validation and outbound links.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "KE"

// countryCode replaces the trunk "0" when a number cannot be parsed.
const countryCode = "254"

// IsValid reports whether input is a dialable number, Kenyan unless it carries a country code.
func IsValid(input string) bool {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), DefaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(number)
}

// NormalizeE164 formats a phone number to E.164 ("+254712345678").
//
// Numbers that fail validation fall back to their digits with the trunk "0"
// replaced by the country code.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return phonenumbers.Format(number, phonenumbers.E164)
	}

	return "+" + International(trimmed)
}

// International returns the number as bare digits with the country code, as chat deep links expect.
func International(input string) string {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), DefaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return strings.TrimPrefix(phonenumbers.Format(number, phonenumbers.E164), "+")
	}

	digits := Digits(input)
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, countryCode):
		return digits
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	}
	return digits
}

// Digits strips everything but ASCII digits.
func Digits(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// National formats a number the way local visitors write it ("0712345678").
func National(input string) string {
	digits := International(input)
	if strings.HasPrefix(digits, countryCode) && len(digits) == 12 {
		return "0" + digits[len(countryCode):]
	}
	return strings.TrimSpace(input)
}

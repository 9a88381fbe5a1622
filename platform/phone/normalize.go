// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// NormalizeE164 formats a phone number to E.164 using the default region.
func NormalizeE164(input string) string {
	return NormalizeE164In(input, defaultRegion)
}

// NormalizeE164In formats a phone number to E.164, reading numbers without a
// country code as belonging to region. Anything that is not a valid phone
// number (an email address, a social handle) is returned trimmed.
func NormalizeE164In(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	if strings.ContainsAny(trimmed, "@/") {
		return trimmed
	}
	if region == "" {
		region = defaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

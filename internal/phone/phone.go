// Package phone validates mobile-money MSISDNs before any network call is
// made. The push-payment gateway only reaches subscribers of the two carriers
// it is integrated with, so validation is deliberately strict.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPhone = errors.New("phone: not a valid mobile money number")

// Accepted numbers are 12 digits: country code 255 followed by a carrier
// prefix (75 Vodacom, 71 Tigo) and a 7-digit subscriber number.
var msisdnPattern = regexp.MustCompile(`^255(75|71)[0-9]{7}$`)

// Normalize strips spaces, dashes and a leading "+" so that user input like
// "+255 75-123-4567" validates. It does not add a missing country code;
// local-format numbers are rejected rather than guessed at.
func Normalize(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "+")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// Validate returns the normalized MSISDN, or ErrInvalidPhone.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if !msisdnPattern.MatchString(s) {
		return "", ErrInvalidPhone
	}
	return s, nil
}

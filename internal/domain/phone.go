package domain

import "strings"

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhoneE164 converts a US phone number to E.164. Ten digits get a +1 prefix,
// eleven digits starting with 1 get a + prefix, anything else is returned as +digits.
func NormalizePhoneE164(phone string) string {
	digits := phoneDigits(phone)
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	}
	return "+" + digits
}

// PhoneLast4 returns the last four digits of phone, or all of them when fewer.
func PhoneLast4(phone string) string {
	digits := phoneDigits(phone)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// MaskPhone hides all but the last four digits, e.g. ***-***-1234.
func MaskPhone(phone string) string {
	return "***-***-" + PhoneLast4(phone)
}

// IsValidPhone reports whether phone has at least ten digits.
func IsValidPhone(phone string) bool {
	return len(phoneDigits(phone)) >= 10
}

// IsPhoneLast4 reports whether s is exactly four ASCII digits.
func IsPhoneLast4(s string) bool {
	return len(s) == 4 && phoneDigits(s) == s
}

package password

import "strings"

// Symbols accepted by the strength policy. Fixed set; anything outside it
// does not count as a symbol.
const symbolSet = "!@#$%^&*"

const minPasswordLength = 8

// IsStrong reports whether password satisfies the registration policy:
// at least 8 bytes, with at least one uppercase letter, one lowercase
// letter, one digit, and one symbol from symbolSet.
//
// Every rule is evaluated over the full input before the results are
// combined, so the time taken does not depend on which rule failed.
func IsStrong(password string) bool {
	longEnough := len(password) >= minPasswordLength
	hasUpper := containsAny(password, func(r rune) bool { return r >= 'A' && r <= 'Z' })
	hasLower := containsAny(password, func(r rune) bool { return r >= 'a' && r <= 'z' })
	hasDigit := containsAny(password, func(r rune) bool { return r >= '0' && r <= '9' })
	hasSymbol := containsAny(password, func(r rune) bool { return strings.ContainsRune(symbolSet, r) })

	return longEnough && hasUpper && hasLower && hasDigit && hasSymbol
}

// containsAny scans the entire string even after a match, keeping the scan
// cost a function of input length alone.
func containsAny(s string, match func(rune) bool) bool {
	found := false
	for _, r := range s {
		if match(r) {
			found = true
		}
	}
	return found
}

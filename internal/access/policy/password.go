// Package policy holds the password policy. Each rule is a named clause
// reported individually, so a violation can say exactly what is missing.
package policy

import (
	"strings"
	"unicode/utf8"
)

// Clause identifies one password rule.
type Clause string

const (
	ClauseMinLength Clause = "min_length"
	ClauseUppercase Clause = "uppercase"
	ClauseLowercase Clause = "lowercase"
	ClauseDigit     Clause = "digit"
	ClauseSymbol    Clause = "symbol"
)

// MinLength is the minimum password length in characters.
const MinLength = 8

// Symbols is the accepted punctuation set for the symbol clause.
const Symbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?`~"

// Check returns every unmet clause. Empty means the password satisfies the
// policy.
func Check(password string) []Clause {
	var failed []Clause

	if utf8.RuneCountInString(password) < MinLength {
		failed = append(failed, ClauseMinLength)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		failed = append(failed, ClauseUppercase)
	}
	if !hasLower {
		failed = append(failed, ClauseLowercase)
	}
	if !hasDigit {
		failed = append(failed, ClauseDigit)
	}
	if !hasSymbol {
		failed = append(failed, ClauseSymbol)
	}

	return failed
}

// Satisfied reports whether the password meets every clause.
func Satisfied(password string) bool {
	return len(Check(password)) == 0
}

package validate

import "strings"

// CleanISBN strips separators and upper-cases the check digit.
func CleanISBN(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, raw)
	return strings.ToUpper(cleaned)
}

// ValidISBN10 checks the weighted mod-11 checksum of a 10-character ISBN.
// The check character may be 'X' (value ten).
func ValidISBN10(raw string) bool {
	s := CleanISBN(raw)
	if len(s) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		sum += (10 - i) * int(s[i]-'0')
	}
	switch {
	case s[9] == 'X':
		sum += 10
	case s[9] >= '0' && s[9] <= '9':
		sum += int(s[9] - '0')
	default:
		return false
	}
	return sum%11 == 0
}

// ValidISBN13 checks the EAN-13 checksum with alternating weights 1 and 3.
func ValidISBN13(raw string) bool {
	s := CleanISBN(raw)
	if len(s) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		n := int(s[i] - '0')
		if i%2 == 1 {
			n *= 3
		}
		sum += n
	}
	if s[12] < '0' || s[12] > '9' {
		return false
	}
	check := (10 - sum%10) % 10
	return check == int(s[12]-'0')
}

// ValidISBN accepts either form.
func ValidISBN(raw string) bool {
	return ValidISBN10(raw) || ValidISBN13(raw)
}

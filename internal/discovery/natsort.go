package discovery

import "strings"

// naturalLess orders filenames the way a person expects: embedded digit runs
// compare numerically, text runs compare case-insensitively, and names that
// start with a bare integer sort as a group before names that do not.
func naturalLess(a, b string) bool {
	return compareNames(strings.TrimSpace(a), strings.TrimSpace(b)) < 0
}

func compareNames(a, b string) int {
	leadA, restA, okA := leadingInteger(a)
	leadB, restB, okB := leadingInteger(b)
	if okA != okB {
		if okA {
			return -1
		}
		return 1
	}
	if okA {
		if cmp := compareDigits(leadA, leadB); cmp != 0 {
			return cmp
		}
		return compareNatural(restA, restB)
	}
	return compareNatural(a, b)
}

// leadingInteger reports a digit run at the start of the name, provided the
// run ends at a word boundary ("10. intro" qualifies, "10_extra" does not).
func leadingInteger(name string) (digits, rest string, ok bool) {
	i := 0
	for i < len(name) && isDigit(name[i]) {
		i++
	}
	if i == 0 {
		return "", name, false
	}
	if i < len(name) && isWordByte(name[i]) {
		return "", name, false
	}
	return name[:i], name[i:], true
}

// compareNatural walks both names as alternating text and digit runs. Runs at
// the same position always have the same kind, so text never compares against
// a number; when one name is a prefix of the other the shorter sorts first.
func compareNatural(a, b string) int {
	for a != "" || b != "" {
		textA, digitsA, tailA := nextRuns(a)
		textB, digitsB, tailB := nextRuns(b)
		if cmp := strings.Compare(strings.ToLower(textA), strings.ToLower(textB)); cmp != 0 {
			return cmp
		}
		if digitsA == "" || digitsB == "" {
			if digitsA == digitsB {
				return 0
			}
			if digitsA == "" {
				return -1
			}
			return 1
		}
		if cmp := compareDigits(digitsA, digitsB); cmp != 0 {
			return cmp
		}
		a, b = tailA, tailB
	}
	return 0
}

// nextRuns splits off the leading text run and the digit run that follows it.
func nextRuns(s string) (text, digits, tail string) {
	i := 0
	for i < len(s) && !isDigit(s[i]) {
		i++
	}
	text = s[:i]
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return text, s[i:j], s[j:]
}

// compareDigits compares two digit runs numerically without parsing, so
// arbitrarily long runs are safe. Leading zeros do not affect the result.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordByte(c byte) bool {
	return c == '_' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

package domain

import "strings"

var phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// NormalizePhone reduces a phone number to the form blacklist entries are
// stored in. Argentine country and mobile prefixes are removed, any other
// international number is kept whole.
func NormalizePhone(phone string) string {
	clean := phoneStripper.Replace(strings.TrimSpace(phone))

	switch {
	case strings.HasPrefix(clean, "+549"):
		return clean[4:]
	case strings.HasPrefix(clean, "+54"):
		return clean[3:]
	case strings.HasPrefix(clean, "549"):
		return clean[3:]
	}
	return clean
}

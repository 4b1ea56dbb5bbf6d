package util

import "strings"

// ConditionalString returns valueIfTrue if condition is true, otherwise valueIfFalse
func ConditionalString(condition bool, valueIfTrue, valueIfFalse string) string {
	if condition {
		return valueIfTrue
	}
	return valueIfFalse
}

// DefaultString returns value, or fallback when value is blank.
func DefaultString(value, fallback string) string {
	return ConditionalString(strings.TrimSpace(value) != "", value, fallback)
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

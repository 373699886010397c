package stringutil

import "strings"

// HasAnyOfPrefixes returns an indication if the given string has any of the given prefixes.
func HasAnyOfPrefixes(input string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}

	return false
}

// SplitOnFirstString splits the input string on the first occurrence of any of the provided separators.
func SplitOnFirstString(s string, separators ...string) (before, after string) {
	minIdx := len(s)
	foundSep := ""

	for _, sep := range separators {
		if idx := strings.Index(s, sep); idx != -1 && idx < minIdx {
			minIdx = idx
			foundSep = sep
		}
	}

	if foundSep == "" {
		return s, ""
	}

	return s[:minIdx], s[minIdx+len(foundSep):]
}

// TrimRootPrefix drops a leading "./" and then a leading "/" from an archive path, so "./etc", "/etc" and "etc"
// compare equal.
func TrimRootPrefix(name string) string {
	return strings.TrimPrefix(strings.TrimPrefix(name, "./"), "/")
}

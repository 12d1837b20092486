package domain

import (
	"regexp"
	"strings"
)

var (
	// adminSuffixRe matches whole-word administrative suffixes so that
	// "De Witt County" and "City of Manassas" strip correctly while
	// "Citrus" stays untouched.
	adminSuffixRe = regexp.MustCompile(`\b(county|parish|borough|city|census area|municipality)\b`)

	// nonSlugRe strips everything outside [a-z0-9].
	nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize canonicalizes a free-text county name into a comparable key:
// lowercase, administrative suffixes removed, "saint "/"sainte " contracted
// to "st "/"ste ", then every non-alphanumeric rune dropped.
//
// The function is pure, locale-independent, and idempotent:
// Normalize("Saint Mary Parish") == Normalize("St Mary") == "stmary".
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = adminSuffixRe.ReplaceAllString(n, "")
	n = strings.ReplaceAll(n, "saint ", "st ")
	n = strings.ReplaceAll(n, "sainte ", "ste ")
	return nonSlugRe.ReplaceAllString(n, "")
}

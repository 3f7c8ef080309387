package repository

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug derives a URL slug from a title. It does not check that the
// slug is free; a duplicate fails on insert.
func GenerateSlug(title string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

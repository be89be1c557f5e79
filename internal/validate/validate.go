// Package validate holds the shape checks applied before any storage write.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{1,200}$`)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func Slug(slug string) error {
	if slug == "" {
		return errors.New("slug must be a non-empty string")
	}

	if !slugPattern.MatchString(slug) {
		return errors.New("slug may only contain lowercase letters, numbers and hyphens, max length 200")
	}

	return nil
}

func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title must be a non-empty string")
	}

	// Character count, not byte count: multibyte titles stay valid.
	if utf8.RuneCountInString(title) > 300 {
		return errors.New("title must be 300 characters or fewer")
	}

	return nil
}

func Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content must be a non-empty string")
	}

	return nil
}

// Slugify derives a URL-safe slug from a title: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, trimmed, and
// truncated to 50 characters. May return "" for titles with no usable runes.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}

	return s
}

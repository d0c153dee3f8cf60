package utils

import (
	"strings"

	"quickpoll/core/constants"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// PollSlug builds a public poll identifier from a title: lowercased
// alphanumeric word groups joined by "-", truncated to 30 characters, with a
// 4-character random base36 suffix so that equal titles never collide.
func PollSlug(title string) string {
	base := slug.Make(title)
	if len(base) > constants.SlugMaxTitleLen {
		base = base[:constants.SlugMaxTitleLen]
		base = strings.TrimRight(base, "-")
	}

	suffix, err := gonanoid.Generate(base36Alphabet, constants.SlugSuffixLen)
	if err != nil {
		suffix = GenerateRandomString(constants.SlugSuffixLen)
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

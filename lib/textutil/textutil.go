package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// the registry is not consistent about which apostrophe it puts in Ukrainian names
var apostropheReplacer = strings.NewReplacer(
	"`", "'",
	"’", "'",
	"ʼ", "'",
	"‘", "'",
)

// NormalizeName lowercases a person's name, unifies apostrophes and removes
// all whitespace, so "Дем`янчук  О. П." and "дем’янчук о.п." compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = apostropheReplacer.Replace(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Package tagextract pulls single fields out of the javascript object literal that
// offer pages embed (`let offer = {...}`) without parsing the literal as a whole.
// The literal is not valid JSON in general, but the individual values are.
package tagextract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Marker is the declaration that starts the offer literal. Matches before it are
// never considered.
const Marker = "let offer"

const snippetLen = 120

// ExtractError is the only error returned by Extract.
type ExtractError struct {
	Tag     string
	Reason  string
	Snippet string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction failed for tag %q: %s (near %q)", e.Tag, e.Reason, e.Snippet)
}

func snippet(text string) string {
	if len(text) <= snippetLen {
		return text
	}
	cut := snippetLen
	// do not split a multi-byte rune
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xc0 != 0x80
}

const valuePattern = `"(?:[^"\\]|\\.)*"|-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?|true|false|null`

func tagRegex(tag string) *regexp.Regexp {
	return regexp.MustCompile(
		`"` + regexp.QuoteMeta(tag) + `"\s*:\s*(?P<val>` + valuePattern + `)`,
	)
}

// Extract finds `"tag": <value>` after Marker in page and decodes the value into T.
func Extract[T any](tag, page string) (T, error) {
	var out T

	start := strings.Index(page, Marker)
	if start < 0 {
		return out, &ExtractError{Tag: tag, Reason: "marker not found", Snippet: snippet(page)}
	}
	suffix := page[start:]

	re := tagRegex(tag)
	groups := re.FindStringSubmatch(suffix)
	if groups == nil {
		return out, &ExtractError{Tag: tag, Reason: "tag not found", Snippet: snippet(suffix)}
	}
	token := groups[re.SubexpIndex("val")]

	err := json.Unmarshal([]byte(token), &out)
	if err != nil {
		return out, &ExtractError{
			Tag:     tag,
			Reason:  fmt.Sprintf("decode %s: %s", token, err.Error()),
			Snippet: snippet(suffix),
		}
	}
	return out, nil
}

// Optional is Extract for fields that may legitimately be missing or malformed.
func Optional[T any](tag, page string) (T, bool) {
	out, err := Extract[T](tag, page)
	if err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

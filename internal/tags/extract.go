// Package tags extracts #topic and @person tags from diary notes and
// suggests tags for untagged text.
package tags

import (
	"regexp"
	"strings"
)

// Marker characters.
const (
	TopicMarker  = '#'
	PersonMarker = '@'
)

// A marker followed by one letter, then letters or digits.
var tagPattern = regexp.MustCompile(`([#@])(\p{L}[\p{L}\p{N}]*)`)

// Occurrence is one tag found in text. Start and End are byte offsets of the
// whole tag including its marker.
type Occurrence struct {
	Marker byte
	Word   string
	Start  int
	End    int
}

// IsPerson reports whether the occurrence is an @mention.
func (o Occurrence) IsPerson() bool {
	return IsPersonMarker(o.Marker)
}

// Name returns the case-insensitive identity of the tag.
func (o Occurrence) Name() string {
	return strings.ToLower(o.Word)
}

// String renders the tag as it appears in text.
func (o Occurrence) String() string {
	return string(o.Marker) + o.Word
}

// IsPersonMarker reports whether marker denotes a person.
func IsPersonMarker(marker byte) bool {
	return marker == PersonMarker
}

// Extract returns every tag in text, left to right.
func Extract(text string) []Occurrence {
	if text == "" {
		return nil
	}
	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		out = append(out, Occurrence{
			Marker: text[m[2]],
			Word:   text[m[4]:m[5]],
			Start:  m[0],
			End:    m[1],
		})
	}
	return out
}

package tags

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Known is a tag with history, as the tag cache reports it.
type Known struct {
	Name      string // original casing
	IsPerson  bool
	TotalUses int
}

// Options configures suggestions.
type Options struct {
	MinUses       int // minimum historical uses of a tag
	MinWordLength int // minimum length in runes of the matched word
	Max           int // 0 means unlimited
}

// DefaultOptions returns default suggestion options.
func DefaultOptions() Options {
	return Options{MinUses: 3, MinWordLength: 3}
}

// Suggestion proposes turning a plain word in the text into a tag.
type Suggestion struct {
	Word        string `json:"word"`
	Tag         string `json:"tag"`
	IsPerson    bool   `json:"is_person"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
	Reason      string `json:"reason"`
}

type span struct{ start, end int }

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

type token struct {
	text  string
	start int
	end   int
}

// Suggest finds plain words in text that match known tags. People are matched
// first, then topics; a literal word is suggested at most once across both
// passes, only its first untagged occurrence is used, and tags already present
// in the text are skipped. Results are ordered by position.
func Suggest(text string, known []Known, opts Options) []Suggestion {
	if strings.TrimSpace(text) == "" || len(known) == 0 {
		return nil
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = 1
	}

	existing := Extract(text)
	blocked := make([]span, 0, len(existing))
	present := map[string]bool{}
	for _, o := range existing {
		blocked = append(blocked, span{o.Start, o.End})
		present[o.Name()] = true
	}

	tokens := tokenize(text)
	suggested := map[string]bool{}
	var out []Suggestion

	for _, person := range []bool{true, false} {
		for _, k := range rankKnown(known, person, opts.MinUses) {
			if present[strings.ToLower(k.Name)] {
				continue
			}
			for _, cand := range candidates(k) {
				if utf8.RuneCountInString(strings.ReplaceAll(cand.phrase, " ", "")) < opts.MinWordLength {
					continue
				}
				sp, ok := findPhrase(text, tokens, strings.Fields(cand.phrase), blocked)
				if !ok {
					continue
				}
				word := text[sp.start:sp.end]
				key := strings.ToLower(word)
				if suggested[key] {
					continue
				}
				suggested[key] = true
				blocked = append(blocked, sp)

				marker := string(rune(TopicMarker))
				if k.IsPerson {
					marker = string(rune(PersonMarker))
				}
				out = append(out, Suggestion{
					Word:        word,
					Tag:         k.Name,
					IsPerson:    k.IsPerson,
					Start:       sp.start,
					End:         sp.end,
					Replacement: marker + k.Name,
					Reason:      cand.reason,
				})
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	if opts.Max > 0 && len(out) > opts.Max {
		out = out[:opts.Max]
	}
	return out
}

func rankKnown(known []Known, person bool, minUses int) []Known {
	var out []Known
	for _, k := range known {
		if k.IsPerson == person && k.TotalUses >= minUses && k.Name != "" {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalUses != out[j].TotalUses {
			return out[i].TotalUses > out[j].TotalUses
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

type candidate struct {
	phrase string
	reason string
}

// candidates lists the spellings under which a tag may appear in plain text,
// most specific first.
func candidates(k Known) []candidate {
	out := []candidate{{phrase: k.Name, reason: "name"}}
	parts := CamelCaseParts(k.Name)
	if len(parts) < 2 {
		return out
	}
	out = append(out, candidate{phrase: strings.Join(parts, " "), reason: "spaced name"})
	if k.IsPerson {
		return append(out, candidate{phrase: parts[0], reason: "first name"})
	}
	for _, p := range parts {
		out = append(out, candidate{phrase: p, reason: "name part"})
	}
	return out
}

func tokenize(text string) []token {
	var out []token
	start := -1
	for i, r := range text {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		if word && start < 0 {
			start = i
		} else if !word && start >= 0 {
			out = append(out, token{text: text[start:i], start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, token{text: text[start:], start: start, end: len(text)})
	}
	return out
}

// findPhrase returns the first run of whole tokens equal (case-insensitively)
// to words, separated only by whitespace, that does not touch a blocked span.
func findPhrase(text string, tokens []token, words []string, blocked []span) (span, bool) {
	if len(words) == 0 {
		return span{}, false
	}
outer:
	for i := 0; i+len(words) <= len(tokens); i++ {
		for j, w := range words {
			t := tokens[i+j]
			if !strings.EqualFold(t.text, w) {
				continue outer
			}
			if j > 0 && strings.TrimSpace(text[tokens[i+j-1].end:t.start]) != "" {
				continue outer
			}
		}
		sp := span{tokens[i].start, tokens[i+len(words)-1].end}
		for _, b := range blocked {
			if sp.overlaps(b) {
				continue outer
			}
		}
		return sp, true
	}
	return span{}, false
}

package tags

import (
	"strings"
	"unicode"
)

// Compound names that must not be split.
var camelAllowList = map[string]bool{
	"iPhone": true, "iPad": true, "iPod": true, "iMac": true, "iOS": true,
	"iCloud": true, "iTunes": true, "macOS": true, "eBay": true, "eBook": true,
	"YouTube": true, "GitHub": true, "GitLab": true, "LinkedIn": true,
	"JavaScript": true, "TypeScript": true, "PowerPoint": true, "WhatsApp": true,
	"PlayStation": true, "WordPress": true, "PayPal": true, "DevOps": true,
	"OpenAI": true, "ChatGPT": true, "TikTok": true, "SoundCloud": true,
	"McDonald": true, "McDonalds": true, "NetFlix": true, "PostgreSQL": true,
}

// Longest "xWord" prefix kept intact, e.g. eBook or iMac.
const maxShortPrefix = 6

// CamelCaseToSpace inserts spaces at camelCase boundaries: lower to upper
// ("runningShoes" -> "running Shoes") and acronym to word ("XMLHttp" ->
// "XML Http"). It is a heuristic, not a tokenizer: words on the allow-list are
// returned unchanged, and a single lowercase letter followed by a short
// capitalised word (up to six characters, like "eBook") stays joined.
func CamelCaseToSpace(word string) string {
	if word == "" || camelAllowList[word] {
		return word
	}
	r := []rune(word)
	n := len(r)

	keepPrefix := 0
	if n >= 3 && unicode.IsLower(r[0]) && unicode.IsUpper(r[1]) && unicode.IsLower(r[2]) {
		j := 2
		for j < n && unicode.IsLower(r[j]) {
			j++
		}
		if j <= maxShortPrefix {
			keepPrefix = j
		}
	}

	var b strings.Builder
	b.Grow(len(word) + 4)
	for i := 0; i < n; i++ {
		if i > 0 && i >= keepPrefix && splitBefore(r, i) {
			b.WriteByte(' ')
		}
		b.WriteRune(r[i])
	}
	return b.String()
}

func splitBefore(r []rune, i int) bool {
	prev, cur := r[i-1], r[i]
	if !unicode.IsUpper(cur) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(r) && unicode.IsLower(r[i+1])
}

// CamelCaseParts splits word at the boundaries CamelCaseToSpace finds.
func CamelCaseParts(word string) []string {
	return strings.Fields(CamelCaseToSpace(word))
}

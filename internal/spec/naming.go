package spec

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// ResolveName derives a method name from a verb and an optional path:
// the lower-cased verb, an underscore, then the path with its leading
// slashes stripped and separators turned into underscores ("no_path" when
// path is nil), normalized to snake_case.
//
//	ResolveName(GET, "/users/{id}") == "get_users_id"
func ResolveName(verb Verb, path *string) string {
	segment := "no_path"
	if path != nil {
		segment = strings.ReplaceAll(strings.TrimLeft(*path, "/"), "/", "_")
	}
	return SnakeCase(strings.ToLower(string(verb)) + "_" + segment)
}

// SnakeCase lower-cases s and joins its words with underscores. Words are
// separated by any non-alphanumeric rune and by case boundaries
// ("userID" -> "user_id", "HTTPServer" -> "http_server").
func SnakeCase(s string) string {
	words := SplitWords(s)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}

// SplitWords breaks s into alphanumeric words at separators and case
// boundaries. Digits stick to the word they follow.
func SplitWords(s string) []string {
	runes := []rune(s)
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

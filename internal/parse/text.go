package parse

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ```json\n...\n``` anywhere in the text; newlines optional
	fenceBlockRegex = regexp.MustCompile("(?s)```(?:json|javascript|js)?[ \\t]*\\n?(.*?)\\n?```")
	// Opening fence left behind by a truncated response
	fenceOpenRegex = regexp.MustCompile("^```(?:json|javascript|js)?[ \\t]*\\n?")

	doubleCommaRegex   = regexp.MustCompile(`,\s*,`)
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	leadingCommaRegex  = regexp.MustCompile(`([\[{]\s*),`)
)

// StripFences removes surrounding code-fence markers, including a lone opening
// fence from a cut-off response. Unfenced text is returned trimmed.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := fenceBlockRegex.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = fenceOpenRegex.ReplaceAllString(trimmed, "")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

// Spans returns every balanced top-level span opened by the given bracket,
// in order of appearance. Brackets inside JSON strings are ignored.
func Spans(text string, open byte) []string {
	var spans []string
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		end := matchClose(text, i)
		if end < 0 {
			continue
		}
		spans = append(spans, text[i:end+1])
		i = end
	}
	return spans
}

// CloseTruncated repairs an array that starts but never ends: a dangling
// partial element after the final comma is dropped and "]" appended.
// Returns false when the text has no unterminated array.
func CloseTruncated(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 || matchClose(text, start) >= 0 {
		return "", false
	}

	body := strings.TrimRightFunc(text[start:], unicode.IsSpace)
	if comma := lastTopLevelComma(body); comma >= 0 {
		if !validElement(body[comma+1:]) {
			body = body[:comma]
		}
	} else if rest := strings.TrimSpace(body[1:]); rest != "" && !validElement(rest) {
		body = "["
	}

	return strings.TrimRightFunc(body, unicode.IsSpace) + "]", true
}

// NormalizeSeparators drops doubled, leading and trailing commas
func NormalizeSeparators(text string) string {
	out := text
	for doubleCommaRegex.MatchString(out) {
		out = doubleCommaRegex.ReplaceAllString(out, ",")
	}
	out = trailingCommaRegex.ReplaceAllString(out, "$1")
	out = leadingCommaRegex.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

func validElement(fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	return fragment != "" && json.Valid([]byte(fragment))
}

// matchClose returns the index of the bracket closing text[start], or -1
func matchClose(text string, start int) int {
	var closer byte = ']'
	if text[start] == '{' {
		closer = '}'
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				if c == closer {
					return i
				}
				return -1
			}
		}
	}
	return -1
}

// lastTopLevelComma finds the last comma directly inside the array opened at body[0]
func lastTopLevelComma(body string) int {
	last := -1
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',':
			if depth == 1 {
				last = i
			}
		}
	}
	return last
}

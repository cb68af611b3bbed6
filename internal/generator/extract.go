package generator

import "strings"

// ExtractJSON pulls the first top-level JSON object out of raw model output.
//
// Markdown fences are removed and any preamble before the first '{' is
// dropped. The object ends where the brace depth returns to zero; braces
// inside string literals are not counted. If the depth never returns to zero
// (truncated output) everything from the first '{' is returned and the JSON
// decoder reports the failure.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.Contains(text, "```") {
		text = strings.ReplaceAll(text, "```json", "")
		text = strings.ReplaceAll(text, "```", "")
		text = strings.TrimSpace(text)
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}
	text = text[start:]

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}

	return text
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package conflict

import "strings"

// stripCodeFences removes a surrounding markdown code fence, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} object in s. Braces
// inside string literals are ignored. Only the first opening brace is tried.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// repairJSON fixes common formatting slips in model output: keys missing
// their opening quote (`, type":`) and trailing commas before a closing
// bracket. String literals are copied untouched.
func repairJSON(s string) string {
	result := []rune(s)
	fixed := make([]rune, 0, len(result)+16)

	inString, escaped := false, false
	i := 0
	for i < len(result) {
		ch := result[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			fixed = append(fixed, ch)
			i++
			continue
		}

		if ch == '"' {
			inString = true
			fixed = append(fixed, ch)
			i++
			continue
		}

		if ch == '{' || ch == ',' {
			// Drop a trailing comma: `,}` or `, ]`.
			if ch == ',' {
				j := i + 1
				for j < len(result) && isSpace(result[j]) {
					j++
				}
				if j < len(result) && (result[j] == '}' || result[j] == ']') {
					i++
					continue
				}
			}

			fixed = append(fixed, ch)
			i++

			for i < len(result) && isSpace(result[i]) {
				fixed = append(fixed, result[i])
				i++
			}

			// An unquoted key directly followed by `":` lost its opening quote.
			if i < len(result) && isLetter(result[i]) {
				keyStart := i
				for i < len(result) && (isLetter(result[i]) || result[i] == '_') {
					i++
				}
				if i+1 < len(result) && result[i] == '"' && result[i+1] == ':' {
					fixed = append(fixed, '"')
					fixed = append(fixed, result[keyStart:i+1]...)
					i++
					continue
				}
				fixed = append(fixed, result[keyStart:i]...)
			}
			continue
		}

		fixed = append(fixed, ch)
		i++
	}

	return string(fixed)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

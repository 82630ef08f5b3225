package solver

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Quiz pages hide payloads as long base64 runs inside markup or script.
// Anything shorter than 80 chars is too likely to be an asset hash.
var base64Regex = regexp.MustCompile(`[A-Za-z0-9+/=]{80,}`)

var jsonObjectRegex = regexp.MustCompile(`\{[\s\S]*\}`)

// FindEmbeddedAnswer scans script text and raw HTML (not body prose) for
// base64 blobs that decode to a JSON object carrying an "answer" key.
// Candidates are tried in order of appearance; decode and parse failures
// skip to the next candidate. Objects without the key, or whose value is
// null, are discarded: a null never counts as a resolved answer.
func FindEmbeddedAnswer(scriptText, rawHTML string) (any, bool) {
	haystack := scriptText + "\n" + rawHTML
	for _, candidate := range base64Regex.FindAllString(haystack, -1) {
		decoded, ok := decodeBase64Tolerant(candidate)
		if !ok {
			continue
		}
		obj, ok := parseLooseJSONObject(decoded)
		if !ok {
			continue
		}
		if answer, present := obj["answer"]; present && answer != nil {
			return answer, true
		}
	}
	return nil, false
}

// decodeBase64Tolerant must not fail hard on malformed padding: the
// padded decode is tried first, then the raw alphabet with padding
// stripped. Invalid UTF-8 in the result is replaced, not rejected.
func decodeBase64Tolerant(s string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return "", false
		}
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), true
}

// parseLooseJSONObject tries the whole text as a JSON object, then the
// first {...} span inside it. Arrays and scalars don't count.
func parseLooseJSONObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, true
	}
	span := jsonObjectRegex.FindString(text)
	if span == "" {
		return nil, false
	}
	obj = nil
	if err := json.Unmarshal([]byte(span), &obj); err == nil && obj != nil {
		return obj, true
	}
	return nil, false
}

package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var numberRegex = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// FirstNumber scans left-to-right for the first numeric token and parses
// it as int64, or float64 when it carries a decimal point. Thousands
// separators are stripped before scanning, so "4,582" reads as 4582.
func FirstNumber(text string) (any, bool) {
	if text == "" {
		return nil, false
	}
	token := numberRegex.FindString(strings.ReplaceAll(text, ",", ""))
	if token == "" {
		return nil, false
	}
	if strings.Contains(token, ".") {
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		// digit runs too long for int64 still count, just as floats
		f, ferr := strconv.ParseFloat(token, 64)
		if ferr != nil {
			return nil, false
		}
		return f, true
	}
	return n, true
}

// Truncate caps s at max bytes for diagnostic snippets, backing off to
// the previous rune boundary so a multi-byte rune is never cut in half.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

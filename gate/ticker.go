package gate

import "regexp"

// Strict ticker-token shape: short uppercase alphanumeric starting with a
// letter, optional single-letter class suffix (BRK.B).
var tickerTokenRE = regexp.MustCompile(`\b[A-Z][A-Z0-9]{0,5}(?:\.[A-Z])?\b`)

var tickerExactRE = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}(?:\.[A-Z])?$`)

// ExtractTickers returns the explicit uppercase ticker tokens present in
// text, deduplicated, in order of first appearance. This is the only way a
// ticker enters the session's allowed set.
func ExtractTickers(text string) []string {
	if text == "" {
		return nil
	}
	found := tickerTokenRE.FindAllString(text, -1)
	var out []string
	seen := map[string]bool{}
	for _, t := range found {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// IsTickerToken reports whether s matches the strict ticker-token shape
// exactly.
func IsTickerToken(s string) bool {
	return tickerExactRE.MatchString(s)
}

// FilterTickerTokens keeps only entries matching the strict token shape.
func FilterTickerTokens(tickers []string) []string {
	var out []string
	for _, t := range tickers {
		if IsTickerToken(t) {
			out = append(out, t)
		}
	}
	return out
}

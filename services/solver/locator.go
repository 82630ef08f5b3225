package solver

import (
	"net/url"
	"regexp"
	"strings"

	"quizsolver-backend/lib/htmlutil"
)

var submitURLRegex = regexp.MustCompile(`(?i)https?://[^\s'"<>]+/submit[^\s'"<>]*`)

// FindSubmitURL locates the endpoint the answer should be posted to.
// First match wins: an absolute URL with a /submit path segment anywhere
// in the corpus, else the first form action attribute resolved against
// the origin page. Returns "" when neither is present.
//
// It runs twice per solve: once up front and once more right before
// submission when the first pass came up empty. The second pass is the
// safety net for corpora where the match only surfaces after heavier
// processing, so callers must not dedupe the two.
func FindSubmitURL(corpus, originURL string) string {
	if match := submitURLRegex.FindString(corpus); match != "" {
		return match
	}
	if actions := htmlutil.FormActions(corpus); len(actions) > 0 {
		return resolveReference(originURL, actions[0])
	}
	return ""
}

// resolveReference joins a possibly-relative action against the origin
// page. Absolute URLs pass through untouched.
func resolveReference(originURL, ref string) string {
	if strings.HasPrefix(strings.ToLower(ref), "http") {
		return ref
	}
	base, err := url.Parse(originURL)
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

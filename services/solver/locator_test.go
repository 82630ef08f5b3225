package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindSubmitURLAbsolute(t *testing.T) {
	corpus := `intro text https://quiz.example.com/submit?id=9 more text
<form action="/other"></form>`
	got := FindSubmitURL(corpus, "https://origin.example.com/page")
	require.Equal(t, "https://quiz.example.com/submit?id=9", got)
}

func TestFindSubmitURLFirstMatchWins(t *testing.T) {
	corpus := "https://a.example.com/submit then https://b.example.com/submit"
	got := FindSubmitURL(corpus, "https://origin.example.com")
	require.Equal(t, "https://a.example.com/submit", got)
}

func TestFindSubmitURLRelativeFormAction(t *testing.T) {
	corpus := `<html><body><form action="/submit?id=1"><input></form></body></html>`
	got := FindSubmitURL(corpus, "https://quiz.example.com/challenge/3")
	require.Equal(t, "https://quiz.example.com/submit?id=1", got)
}

func TestFindSubmitURLAbsoluteFormAction(t *testing.T) {
	corpus := `<form action="https://elsewhere.example.com/post"></form>`
	got := FindSubmitURL(corpus, "https://quiz.example.com")
	require.Equal(t, "https://elsewhere.example.com/post", got)
}

func TestFindSubmitURLActionInScriptString(t *testing.T) {
	corpus := `<script>document.write('<form action="/graded/submit">');</script>`
	got := FindSubmitURL(corpus, "https://quiz.example.com/challenge/3")
	require.Equal(t, "https://quiz.example.com/graded/submit", got)
}

func TestFindSubmitURLNone(t *testing.T) {
	require.Equal(t, "", FindSubmitURL("nothing to see here", "https://quiz.example.com"))
}

func TestFindSubmitURLRepeatable(t *testing.T) {
	// the pre-submission fallback re-invokes the locator over the same
	// corpus; both passes must agree
	corpus := `<form action="relative/path"></form>`
	origin := "https://quiz.example.com/a/b"
	first := FindSubmitURL(corpus, origin)
	second := FindSubmitURL(corpus, origin)
	require.Equal(t, "https://quiz.example.com/a/relative/path", first)
	require.Equal(t, first, second)
}

package solver

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizsolver-backend/lib/browser"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func embeddedAnswerBlob(t *testing.T, answer string) string {
	t.Helper()
	text := `{"filler": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "answer": ` + answer + `}`
	return base64.StdEncoding.EncodeToString([]byte(text))
}

func TestResolveEmbeddedPayloadBeatsEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("file download attempted even though the embedded payload should win")
	}))
	defer srv.Close()

	page := browser.RenderedPage{
		HTML:       "<html><body>999 other numbers</body><a href=\"" + srv.URL + "/data.csv\">file</a></html>",
		BodyText:   "999 other numbers",
		ScriptText: "var p = \"" + embeddedAnswerBlob(t, "42") + "\";",
	}
	candidate := Resolve(context.Background(), page, buildCorpus(page), NewDownloader())
	require.NotNil(t, candidate)
	require.Equal(t, KindDecodedJSON, candidate.Kind)
	require.Equal(t, float64(42), candidate.Value)
	require.Equal(t, "inline", candidate.Source)
}

func TestResolveRemoteFileBeatsPageText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "value\n10\n20\n30\n")
	}))
	defer srv.Close()

	page := browser.RenderedPage{
		HTML:     "<html><body>irrelevant 7 here</body></html>",
		BodyText: "irrelevant 7 here, data at " + srv.URL + "/numbers.csv",
	}
	candidate := Resolve(context.Background(), page, buildCorpus(page), NewDownloader())
	require.NotNil(t, candidate)
	require.Equal(t, KindFileTable, candidate.Kind)
	require.Equal(t, float64(60), candidate.Value)
}

func TestResolvePageTextFallback(t *testing.T) {
	page := browser.RenderedPage{
		HTML:     "<html><body>Total: 4,582 units</body></html>",
		BodyText: "Total: 4,582 units",
	}
	candidate := Resolve(context.Background(), page, buildCorpus(page), NewDownloader())
	require.NotNil(t, candidate)
	require.Equal(t, KindPageText, candidate.Kind)
	require.Equal(t, int64(4582), candidate.Value)
}

func TestResolveNullEmbeddedAnswer(t *testing.T) {
	page := browser.RenderedPage{
		HTML:       "<html><body>no digits anywhere</body></html>",
		BodyText:   "no digits anywhere",
		ScriptText: "var p = \"" + encodePayload(t, `{`+filler+`"answer": null}`) + "\";",
	}
	require.Nil(t, Resolve(context.Background(), page, buildCorpus(page), NewDownloader()))
}

func TestResolveNothing(t *testing.T) {
	page := browser.RenderedPage{
		HTML:     "<html><body>nothing numeric</body></html>",
		BodyText: "nothing numeric",
	}
	require.Nil(t, Resolve(context.Background(), page, buildCorpus(page), NewDownloader()))
}

func TestResolveDeterministic(t *testing.T) {
	page := browser.RenderedPage{
		HTML:       "<html><body>Total 123 and 456</body></html>",
		BodyText:   "Total 123 and 456",
		ScriptText: "var a = 1;",
	}
	corpus := buildCorpus(page)
	first := Resolve(context.Background(), page, corpus, NewDownloader())
	second := Resolve(context.Background(), page, corpus, NewDownloader())
	require.NotNil(t, first)
	require.Empty(t, cmp.Diff(first, second))
}

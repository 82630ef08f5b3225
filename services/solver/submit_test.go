package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quizsolver-backend/lib/browser"

	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	page        browser.RenderedPage
	renderErr   error
	snapshot    string
	snapshotErr error
	followed    []string
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (browser.RenderedPage, error) {
	return f.page, f.renderErr
}

func (f *fakeRenderer) Snapshot(_ context.Context, url string) (string, error) {
	f.followed = append(f.followed, url)
	return f.snapshot, f.snapshotErr
}

// fakeClock advances by step on every reading, simulating elapsed
// wall-clock time inside a single solve.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newTestSolver(cfg Config, r Renderer) *Solver {
	s := NewSolver(cfg, r)
	return s
}

func pageWithAnswerAndSubmit(submitURL string) browser.RenderedPage {
	return browser.RenderedPage{
		HTML:     `<html><body>Total 1234 and endpoint ` + submitURL + `</body></html>`,
		BodyText: "Total 1234 and endpoint " + submitURL,
	}
}

func TestSolveSubmitsAndReturnsResponse(t *testing.T) {
	var got submissionPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"correct": true}`)
	}))
	defer srv.Close()

	renderer := &fakeRenderer{page: pageWithAnswerAndSubmit(srv.URL + "/submit")}
	s := newTestSolver(Config{Secret: "s3cret", MaxSeconds: 170}, renderer)

	report, err := s.Solve(context.Background(), QuizRequest{
		Email:  "a@b.c",
		Secret: "s3cret",
		URL:    "https://quiz.example.com/q/1",
	})
	require.NoError(t, err)

	require.Equal(t, 200, report["submitted_status"])
	require.Equal(t, map[string]any{"correct": true}, report["submit_response"])
	require.Equal(t, int64(1234), report["answer_sent"])
	require.Equal(t, srv.URL+"/submit", report["submit_url"])

	require.Equal(t, "a@b.c", got.Email)
	require.Equal(t, "s3cret", got.Secret)
	require.Equal(t, "https://quiz.example.com/q/1", got.URL)
	require.Equal(t, float64(1234), got.Answer)
}

func TestSolveNoAnswerFound(t *testing.T) {
	renderer := &fakeRenderer{page: browser.RenderedPage{
		HTML:     "<html><body>nothing numeric here</body></html>",
		BodyText: "nothing numeric here",
	}}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)

	report, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.NoError(t, err)
	require.Equal(t, StatusNoAnswerFound, report["status"])
	require.Contains(t, report["snippet"], "nothing numeric here")
	require.LessOrEqual(t, len(report["snippet"].(string)), snippetBudget)
}

func TestSolveNoSubmitURL(t *testing.T) {
	renderer := &fakeRenderer{page: browser.RenderedPage{
		HTML:     "<html><body>Total 99</body></html>",
		BodyText: "Total 99",
	}}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)

	report, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.NoError(t, err)
	require.Equal(t, StatusNoSubmitURL, report["status"])
	require.Equal(t, int64(99), report["answer"])
}

func TestSolveFollowsChainedURL(t *testing.T) {
	var next string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"url": %q}`, next)
	}))
	defer srv.Close()
	next = srv.URL + "/next-page"

	renderer := &fakeRenderer{
		page:     pageWithAnswerAndSubmit(srv.URL + "/submit"),
		snapshot: "<html><body>chained page content</body></html>",
	}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)

	report, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.NoError(t, err)
	require.Equal(t, next, report["followed_next_url"])
	require.Equal(t, "<html><body>chained page content</body></html>", report["next_snippet"])
	require.Equal(t, []string{next}, renderer.followed)
}

func TestSolveFollowErrorIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"url": "https://chained.example.com/next"}`)
	}))
	defer srv.Close()

	renderer := &fakeRenderer{
		page:        pageWithAnswerAndSubmit(srv.URL + "/submit"),
		snapshotErr: fmt.Errorf("chrome crashed"),
	}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)

	report, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.NoError(t, err)
	require.Equal(t, 200, report["submitted_status"])
	require.Equal(t, "chrome crashed", report["follow_error"])
	require.NotContains(t, report, "followed_next_url")
}

func TestSolvePartialDueToTimeSkipsFollow(t *testing.T) {
	var submitted atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		submitted.Store(true)
		// a chained URL is offered but must be ignored on the partial path
		fmt.Fprint(w, `{"url": "https://chained.example.com/next"}`)
	}))
	defer srv.Close()

	renderer := &fakeRenderer{page: pageWithAnswerAndSubmit(srv.URL + "/submit")}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)
	// every clock reading advances 90s: the budget gate sees 180s elapsed
	s.now = (&fakeClock{now: time.Unix(1000, 0), step: 90 * time.Second}).Now

	report, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.NoError(t, err)
	require.Equal(t, StatusPartialDueToTime, report["status"])
	require.Equal(t, 200, report["post_status"])
	require.True(t, submitted.Load(), "partial path must still submit exactly once")
	require.Empty(t, renderer.followed, "chaining must be skipped unconditionally")
}

func TestSolveSubmitNetworkFailure(t *testing.T) {
	// endpoint resolves but nothing is listening
	renderer := &fakeRenderer{page: pageWithAnswerAndSubmit("http://127.0.0.1:1/submit")}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)

	report, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.NoError(t, err)
	require.Nil(t, report["submitted_status"])
	require.NotEmpty(t, report["submit_response"])
}

func TestSolveRenderErrorPropagates(t *testing.T) {
	renderer := &fakeRenderer{renderErr: fmt.Errorf("%w: page load", browser.ErrNavigateTimeout)}
	s := newTestSolver(Config{MaxSeconds: 170}, renderer)

	_, err := s.Solve(context.Background(), QuizRequest{Email: "a@b.c", Secret: "x", URL: "https://q.example.com"})
	require.ErrorIs(t, err, browser.ErrNavigateTimeout)
}

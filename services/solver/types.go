// Package solver implements the answer resolution pipeline for
// auto-generated web quizzes: render the target page, hunt for the answer
// through a cascade of extraction strategies, then post it to the
// discovered submission endpoint, optionally following one chained URL.
package solver

import (
	"context"
	"time"

	"quizsolver-backend/lib/browser"
)

// Renderer is the headless-browser boundary. The production
// implementation is lib/browser; tests substitute fakes.
type Renderer interface {
	Render(ctx context.Context, url string) (browser.RenderedPage, error)
	Snapshot(ctx context.Context, url string) (string, error)
}

// Config is read once at startup and passed around immutably.
type Config struct {
	Secret string `json:"secret"`
	// MaxSeconds is the overall wall-clock budget for one solve.
	MaxSeconds int            `json:"max_seconds"`
	Port       int            `json:"port"`
	Browser    browser.Config `json:"browser"`
}

func (c Config) Budget() time.Duration {
	if c.MaxSeconds <= 0 {
		return 170 * time.Second
	}
	return time.Duration(c.MaxSeconds) * time.Second
}

// QuizRequest is one incoming solve call. All fields are required and the
// secret must match the configured value before any work begins.
type QuizRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// Kind names the strategy that produced an answer candidate.
type Kind string

const (
	KindDecodedJSON Kind = "decoded-json"
	KindFileTable   Kind = "file-table"
	KindFileText    Kind = "file-text-numeric"
	KindPageText    Kind = "page-text-numeric"
)

// Candidate is a strategy's proposed answer before the orchestrator
// accepts or discards it.
type Candidate struct {
	Kind Kind
	// Value is int64, float64 or string; nil means the strategy
	// produced nothing.
	Value any
	// Source is the file URL the value came from, or "inline".
	Source string
}

// ResolvedAnswer is immutable once set; it is never recomputed after
// selection.
type ResolvedAnswer struct {
	Value          any
	Strategy       Kind
	ElapsedSeconds float64
}

// SubmissionResult captures the outcome of the answer POST. Status and
// Err are mutually exclusive: a network failure leaves Status nil and
// populates Err.
type SubmissionResult struct {
	// Status is the HTTP status code, or nil when the POST never got a
	// response.
	Status any
	// Body is the response parsed as JSON when possible, else the raw
	// text.
	Body any
	Err  string
}

const (
	snippetBudget     = 1600
	nextSnippetBudget = 1000
)

// Report is the JSON object returned to the caller. Keys follow the wire
// shapes of the quiz protocol: status/snippet, status/answer,
// status/post_status/response, or
// submitted_status/submit_response/answer_sent/submit_url with the
// optional follow fields.
type Report = map[string]any

const (
	StatusNoAnswerFound    = "no_answer_found"
	StatusNoSubmitURL      = "no_submit_url"
	StatusPartialDueToTime = "submitted_partial_due_to_time"
)

// buildCorpus concatenates the rendered page into the single search
// corpus every strategy scans. The order is fixed so reruns over the same
// snapshot are deterministic.
func buildCorpus(page browser.RenderedPage) string {
	return page.BodyText + "\n" + page.ScriptText + "\n" + page.HTML
}

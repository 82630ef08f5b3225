package solver

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"quizsolver-backend/lib/telemetry"
	"quizsolver-backend/lib/textutil"

	"github.com/go-resty/resty/v2"
)

// SubmitClient posts resolved answers to the discovered endpoint.
type SubmitClient struct {
	client *resty.Client
}

func NewSubmitClient() *SubmitClient {
	client := resty.New()
	client.SetTimeout(25 * time.Second)
	telemetry.InstrumentResty(client, "solver/submit")
	return &SubmitClient{client: client}
}

type submissionPayload struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
	URL    string `json:"url"`
	Answer any    `json:"answer"`
}

// Post issues the single answer POST. It never returns an error: a
// transport failure yields a nil status and the error text as the body,
// so the caller can echo it back like any other response.
func (c *SubmitClient) Post(ctx context.Context, submitURL string, payload submissionPayload) SubmissionResult {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(submitURL)
	if err != nil {
		return SubmissionResult{Status: nil, Body: err.Error(), Err: err.Error()}
	}

	var body any
	if jerr := json.Unmarshal(res.Body(), &body); jerr != nil {
		body = string(res.Body())
	}
	return SubmissionResult{Status: res.StatusCode(), Body: body}
}

// Solver wires the renderer, the strategy cascade and the submission
// controller into the full per-request flow.
type Solver struct {
	cfg        Config
	renderer   Renderer
	downloader *Downloader
	submit     *SubmitClient
	now        func() time.Time
}

func NewSolver(cfg Config, renderer Renderer) *Solver {
	return &Solver{
		cfg:        cfg,
		renderer:   renderer,
		downloader: NewDownloader(),
		submit:     NewSubmitClient(),
		now:        time.Now,
	}
}

// Solve runs one quiz request start to finish. The returned error is
// non-nil only when the initial render fails; every later failure
// degrades into one of the diagnostic report shapes.
func (s *Solver) Solve(ctx context.Context, req QuizRequest) (Report, error) {
	ctx, span := tracer.Start(ctx, "Solve")
	defer span.End()

	start := s.now()

	page, err := s.renderer.Render(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	corpus := buildCorpus(page)

	submitURL := FindSubmitURL(corpus, req.URL)

	candidate := Resolve(ctx, page, corpus, s.downloader)
	if candidate == nil {
		return Report{
			"status":  StatusNoAnswerFound,
			"snippet": textutil.Truncate(corpus, snippetBudget),
		}, nil
	}
	answer := ResolvedAnswer{
		Value:          candidate.Value,
		Strategy:       candidate.Kind,
		ElapsedSeconds: s.now().Sub(start).Seconds(),
	}
	slog.InfoContext(ctx, "resolved answer",
		"strategy", answer.Strategy, "source", candidate.Source,
		"elapsed_seconds", answer.ElapsedSeconds)

	if submitURL == "" {
		// second locator pass, the documented safety net
		submitURL = FindSubmitURL(corpus, req.URL)
	}
	if submitURL == "" {
		return Report{
			"status": StatusNoSubmitURL,
			"answer": answer.Value,
		}, nil
	}

	payload := submissionPayload{
		Email:  req.Email,
		Secret: req.Secret,
		URL:    req.URL,
		Answer: answer.Value,
	}

	if s.now().Sub(start) > s.cfg.Budget()-10*time.Second {
		result := s.submit.Post(ctx, submitURL, payload)
		slog.WarnContext(ctx, "submitted with no time left for chaining", "status", result.Status)
		return Report{
			"status":      StatusPartialDueToTime,
			"post_status": result.Status,
			"response":    result.Body,
		}, nil
	}

	result := s.submit.Post(ctx, submitURL, payload)
	report := Report{
		"submitted_status": result.Status,
		"submit_response":  result.Body,
		"answer_sent":      answer.Value,
		"submit_url":       submitURL,
	}

	if next, ok := nextURL(result.Body); ok {
		remaining := s.cfg.Budget() - s.now().Sub(start) - 5*time.Second
		if remaining > 5*time.Second {
			s.follow(ctx, next, report)
		}
	}
	return report, nil
}

// follow performs the reduced single-level chained render. Failures are
// recorded as an extra field, never as an overall failure.
func (s *Solver) follow(ctx context.Context, next string, report Report) {
	snapshot, err := s.renderer.Snapshot(ctx, next)
	if err != nil {
		slog.WarnContext(ctx, "follow-up render failed", "url", next, "err", err)
		report["follow_error"] = err.Error()
		return
	}
	report["followed_next_url"] = next
	report["next_snippet"] = textutil.Truncate(snapshot, nextSnippetBudget)
}

func nextURL(body any) (string, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	u, ok := obj["url"].(string)
	return u, ok && u != ""
}

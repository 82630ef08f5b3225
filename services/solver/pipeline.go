package solver

import (
	"context"
	"log/slog"

	"quizsolver-backend/lib/browser"
	"quizsolver-backend/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/solver")

// Resolve runs the strategy cascade in strict priority order with
// short-circuit on the first hit:
//
//  1. an "answer" key inside an embedded base64 JSON payload,
//  2. a number derived from a linked data file,
//  3. the first numeric token anywhere in the corpus.
//
// Each strategy runs exactly once; nil means "no answer found", which is
// a normal reported outcome, not an error. Rerunning over the same page
// snapshot yields the same answer.
func Resolve(ctx context.Context, page browser.RenderedPage, corpus string, downloader *Downloader) *Candidate {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	if answer, ok := FindEmbeddedAnswer(page.ScriptText, page.HTML); ok {
		span.SetAttributes(attribute.String("strategy", string(KindDecodedJSON)))
		slog.InfoContext(ctx, "answer from embedded payload")
		return &Candidate{Kind: KindDecodedJSON, Value: answer, Source: "inline"}
	}

	if candidate := ResolveRemoteData(ctx, corpus, downloader); candidate != nil {
		span.SetAttributes(attribute.String("strategy", string(candidate.Kind)))
		slog.InfoContext(ctx, "answer from data file", "source", candidate.Source, "kind", candidate.Kind)
		return candidate
	}

	if v, ok := textutil.FirstNumber(corpus); ok {
		span.SetAttributes(attribute.String("strategy", string(KindPageText)))
		slog.InfoContext(ctx, "answer from page text fallback")
		return &Candidate{Kind: KindPageText, Value: v, Source: "inline"}
	}

	slog.InfoContext(ctx, "no answer found in corpus")
	return nil
}

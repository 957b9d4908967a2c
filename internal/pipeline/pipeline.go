// Package pipeline turns a natural-language question into a display-ready
// answer: one model round-trip to synthesize a read-only query, a
// deterministic safety gate, one execution against the dataset, and one
// model round-trip to summarize the rows. Each turn is independent; nothing
// is cached or remembered across calls.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salespilot/salespilot/internal/dataset"
	"github.com/salespilot/salespilot/internal/llm"
	"github.com/salespilot/salespilot/internal/observability"
	"github.com/salespilot/salespilot/internal/schema"
)

const (
	// DefaultSummaryTemperature trades a little determinism for more
	// natural prose; the synthesizer stays at zero.
	DefaultSummaryTemperature = 0.7

	// DefaultMaxRowsShown caps how many result rows reach the summarizer.
	DefaultMaxRowsShown = 20
)

type Pipeline struct {
	Provider llm.TextCompletionProvider
	Stores   dataset.Factory
	Logger   *slog.Logger

	SynthTemperature   float64
	SummaryTemperature float64
	MaxRowsShown       int
}

func New(provider llm.TextCompletionProvider, stores dataset.Factory, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Provider:           provider,
		Stores:             stores,
		Logger:             logger,
		SummaryTemperature: DefaultSummaryTemperature,
		MaxRowsShown:       DefaultMaxRowsShown,
	}
}

// Answer runs one full turn and always returns display-ready text. Failures
// never escape as errors: an unanswerable question yields the fixed help
// text, a backend rejection yields a one-line query error, and a model fault
// yields a generic one-line error.
func (p *Pipeline) Answer(ctx context.Context, question string) string {
	start := time.Now()

	candidate, ok, err := p.timedSynthesize(ctx, question)
	if err != nil {
		p.Logger.ErrorContext(ctx, "query synthesis failed", slog.Any("error", err))
		observability.ObserveTurn("model_fault", time.Since(start))
		return fmt.Sprintf("An error occurred: %v", err)
	}
	if !ok {
		p.Logger.InfoContext(ctx, "no query for question", slog.String("question", question))
		observability.ObserveTurn("no_query", time.Since(start))
		return schema.HelpText()
	}

	if err := validateQuery(candidate); err != nil {
		p.Logger.WarnContext(ctx, "candidate query rejected",
			slog.String("reason", rejectReason(err)),
			slog.String("candidate", candidate),
		)
		observability.ObserveQueryRejected(rejectReason(err))
		observability.ObserveTurn("rejected", time.Since(start))
		return schema.HelpText()
	}

	result, err := p.execute(ctx, candidate)
	if err != nil {
		p.Logger.WarnContext(ctx, "query execution failed",
			slog.String("query", candidate),
			slog.Any("error", err),
		)
		observability.ObserveTurn("exec_error", time.Since(start))
		return fmt.Sprintf("Error running query: %v", err)
	}

	answer, err := p.timedSummarize(ctx, question, candidate, result)
	if err != nil {
		p.Logger.ErrorContext(ctx, "result summarization failed", slog.Any("error", err))
		observability.ObserveTurn("model_fault", time.Since(start))
		return fmt.Sprintf("An error occurred: %v", err)
	}

	p.Logger.InfoContext(ctx, "turn answered",
		slog.String("query", candidate),
		slog.Int("rows", len(result.Rows)),
		slog.String("duration", time.Since(start).String()),
	)
	observability.ObserveTurn("answered", time.Since(start))
	return answer
}

// execute acquires a store for exactly this turn and releases it on every
// path out.
func (p *Pipeline) execute(ctx context.Context, query string) (dataset.Result, error) {
	store, err := p.Stores.Open(ctx)
	if err != nil {
		return dataset.Result{}, err
	}
	defer func() { _ = store.Close() }()

	start := time.Now()
	result, err := store.Query(ctx, query)
	if err != nil {
		return dataset.Result{}, err
	}
	observability.ObserveQuery(time.Since(start))
	return result, nil
}

func (p *Pipeline) timedSynthesize(ctx context.Context, question string) (string, bool, error) {
	start := time.Now()
	candidate, ok, err := p.synthesize(ctx, question)
	observability.ObserveModelRequest("synthesize", time.Since(start), err == nil)
	return candidate, ok, err
}

func (p *Pipeline) timedSummarize(ctx context.Context, question, query string, result dataset.Result) (string, error) {
	start := time.Now()
	answer, err := p.summarize(ctx, question, query, result)
	observability.ObserveModelRequest("summarize", time.Since(start), err == nil)
	return answer, err
}

func (p *Pipeline) maxRowsShown() int {
	if p.MaxRowsShown > 0 {
		return p.MaxRowsShown
	}
	return DefaultMaxRowsShown
}

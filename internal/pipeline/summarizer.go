package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/salespilot/salespilot/internal/dataset"
	"github.com/salespilot/salespilot/internal/llm"
)

const summarizerSystemPrompt = "You are an economics analyst for a retail chain. " +
	"Answer the user's question in plain language using the query results provided. " +
	"Be concise and concrete, and cite the figures that matter."

func (p *Pipeline) summarize(ctx context.Context, question, query string, result dataset.Result) (string, error) {
	userPrompt := fmt.Sprintf("Question:\n%s\n\nSQL query:\n%s\n\nResults:\n%s",
		question, query, serializeRows(result, p.maxRowsShown()))

	answer, err := p.Provider.Complete(ctx, llm.Request{
		SystemPrompt: summarizerSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  p.SummaryTemperature,
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// serializeRows renders at most maxRows rows, one comma-joined line each,
// with a trailing note for anything omitted.
func serializeRows(result dataset.Result, maxRows int) string {
	if len(result.Rows) == 0 {
		return "(no rows)"
	}

	shown := result.Rows
	omitted := 0
	if len(shown) > maxRows {
		omitted = len(shown) - maxRows
		shown = shown[:maxRows]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, row := range shown {
		parts := make([]string, len(row))
		for i, value := range row {
			parts[i] = formatValue(value)
		}
		lines = append(lines, strings.Join(parts, ", "))
	}
	if omitted > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more rows not shown.", omitted))
	}
	return strings.Join(lines, "\n")
}

func formatValue(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", value)
}

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/salespilot/salespilot/internal/llm"
	"github.com/salespilot/salespilot/internal/schema"
)

// Sentinel is the fixed token the model emits when a question cannot be
// answered from the sales table. Matched case-insensitively anywhere in the
// response.
const Sentinel = "NO_QUERY"

func synthesizerSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You translate questions about a retail sales dataset into a single read-only SQL query.\n\n")
	sb.WriteString(schema.PromptSchema())
	sb.WriteString("\nRules:\n")
	sb.WriteString("- Output exactly one SELECT statement and nothing else. No markdown, no explanation.\n")
	sb.WriteString(fmt.Sprintf("- Query only the %s table. Never join to, modify, or create anything.\n", schema.TableName))
	sb.WriteString("- Never use INSERT, UPDATE, DELETE, DROP, ALTER, CREATE, or any other statement kind.\n")
	sb.WriteString("- Avoid vendor-specific or advanced SQL features.\n")
	sb.WriteString("- Add LIMIT 100 unless the question asks for more rows.\n")
	sb.WriteString("- Unless a specific store is named, aggregate across all stores.\n")
	sb.WriteString("- Weighted average elasticity is SUM(Elasticity*NetSales)/SUM(NetSales), grouped by the dimension asked about.\n")
	sb.WriteString(fmt.Sprintf("- If the question cannot be answered from this table, respond with exactly %s.\n", Sentinel))
	return sb.String()
}

// synthesize asks the model for a candidate query. The second return value is
// false when the model signalled that no query applies. A malformed but
// non-sentinel response is returned as-is; the validator is the gate.
func (p *Pipeline) synthesize(ctx context.Context, question string) (string, bool, error) {
	response, err := p.Provider.Complete(ctx, llm.Request{
		SystemPrompt: synthesizerSystemPrompt(),
		UserPrompt:   question,
		Temperature:  p.SynthTemperature,
	})
	if err != nil {
		return "", false, err
	}

	candidate := stripMarkdownSQL(response)
	if strings.Contains(strings.ToUpper(candidate), Sentinel) {
		return "", false, nil
	}
	return candidate, true, nil
}

func stripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}

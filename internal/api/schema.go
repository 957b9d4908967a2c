package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/salespilot/salespilot/internal/dataset"
	"github.com/salespilot/salespilot/internal/schema"
)

// SchemaSource optionally supplies sample rows for the schema endpoint.
// When nil, the endpoint serves the descriptor alone.
type SchemaSource struct {
	Stores     dataset.Factory
	SampleRows int
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	columns := make([]map[string]string, 0, len(schema.Columns()))
	for _, col := range schema.Columns() {
		columns = append(columns, map[string]string{
			"name":        col.Name,
			"type":        col.Type,
			"description": col.Description,
		})
	}

	response := map[string]any{
		"table":   schema.TableName,
		"columns": columns,
	}

	if deps.Schema.Stores != nil && deps.Schema.SampleRows > 0 {
		samples, err := fetchSampleRows(r.Context(), deps.Schema)
		if err != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "SAMPLE_FETCH_FAILED", "failed to load sample rows")
			return
		}
		response["sample_rows"] = samples
	}

	writeJSON(w, http.StatusOK, response)
}

func fetchSampleRows(ctx context.Context, src SchemaSource) ([][]any, error) {
	store, err := src.Stores.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open dataset store: %w", err)
	}
	defer func() { _ = store.Close() }()

	result, err := store.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", schema.TableName, src.SampleRows))
	if err != nil {
		return nil, fmt.Errorf("sample query: %w", err)
	}
	return result.Rows, nil
}

// Package schema holds the static descriptor of the one queryable table.
// The synthesizer prompt, the validator table check, and the fallback help
// text are all derived from this descriptor so they cannot drift apart.
package schema

import (
	"fmt"
	"strings"
)

const TableName = "sales_data"

type Column struct {
	Name        string
	Type        string
	Description string
}

var columns = []Column{
	{Name: "id", Type: "INTEGER", Description: "Row identifier"},
	{Name: "Store", Type: "TEXT", Description: "Store name"},
	{Name: "Category", Type: "TEXT", Description: "Top-level product category"},
	{Name: "SubCategory", Type: "TEXT", Description: "Product subcategory"},
	{Name: "ItemDescription", Type: "TEXT", Description: "Item description"},
	{Name: "Price", Type: "DOUBLE", Description: "Unit price"},
	{Name: "Elasticity", Type: "DOUBLE", Description: "Price elasticity of demand"},
	{Name: "NetUnits", Type: "DOUBLE", Description: "Net units sold"},
	{Name: "NetSales", Type: "DOUBLE", Description: "Net sales revenue"},
}

// Columns returns the ordered column descriptors. The returned slice is a
// copy; callers may not mutate the registry.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

func ColumnNames() []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// PromptSchema renders the table descriptor in the form embedded in the
// synthesizer system prompt.
func PromptSchema() string {
	var sb strings.Builder
	sb.WriteString("Table: ")
	sb.WriteString(TableName)
	sb.WriteString("\nColumns:\n")
	for _, col := range columns {
		sb.WriteString(fmt.Sprintf("  - %s (%s): %s\n", col.Name, col.Type, col.Description))
	}
	return sb.String()
}

// HelpText is the fixed fallback shown when no query can be produced for a
// question, either because the model declined or the candidate failed
// validation.
func HelpText() string {
	var sb strings.Builder
	sb.WriteString("I can only answer questions about the sales dataset. ")
	sb.WriteString("It has one table, ")
	sb.WriteString(TableName)
	sb.WriteString(", with the columns ")
	sb.WriteString(strings.Join(ColumnNames(), ", "))
	sb.WriteString(".\n\nTry questions like:\n")
	sb.WriteString("  - Which store has the highest NetSales?\n")
	sb.WriteString("  - What are the top 5 categories by NetUnits?\n")
	sb.WriteString("  - What is the weighted average elasticity per category?\n")
	return sb.String()
}

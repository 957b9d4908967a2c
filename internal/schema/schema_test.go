package schema

import (
	"strings"
	"testing"
)

func TestColumnsAreOrderedAndComplete(t *testing.T) {
	want := []string{"id", "Store", "Category", "SubCategory", "ItemDescription", "Price", "Elasticity", "NetUnits", "NetSales"}
	got := ColumnNames()
	if len(got) != len(want) {
		t.Fatalf("column count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColumnsReturnsACopy(t *testing.T) {
	cols := Columns()
	cols[0].Name = "mutated"
	if Columns()[0].Name != "id" {
		t.Fatal("Columns() must not expose the registry for mutation")
	}
}

func TestPromptSchemaMentionsEveryColumn(t *testing.T) {
	prompt := PromptSchema()
	if !strings.Contains(prompt, TableName) {
		t.Fatal("prompt schema is missing the table name")
	}
	for _, name := range ColumnNames() {
		if !strings.Contains(prompt, name) {
			t.Fatalf("prompt schema is missing column %q", name)
		}
	}
}

func TestHelpTextListsColumnsAndExamples(t *testing.T) {
	help := HelpText()
	for _, name := range ColumnNames() {
		if !strings.Contains(help, name) {
			t.Fatalf("help text is missing column %q", name)
		}
	}
	if !strings.Contains(help, "?") {
		t.Fatal("help text should include example questions")
	}
}

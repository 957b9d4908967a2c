package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/parquet-go/parquet-go"
)

type salesRow struct {
	ID              int64   `parquet:"id"`
	Store           string  `parquet:"Store"`
	Category        string  `parquet:"Category"`
	SubCategory     string  `parquet:"SubCategory"`
	ItemDescription string  `parquet:"ItemDescription"`
	Price           float64 `parquet:"Price"`
	Elasticity      float64 `parquet:"Elasticity"`
	NetUnits        float64 `parquet:"NetUnits"`
	NetSales        float64 `parquet:"NetSales"`
}

func sampleRows() []salesRow {
	return []salesRow{
		{ID: 1, Store: "Downtown", Category: "Wine", SubCategory: "Red", ItemDescription: "Pinot Noir", Price: 18.5, Elasticity: -1.2, NetUnits: 120, NetSales: 2220},
		{ID: 2, Store: "Uptown", Category: "Beer", SubCategory: "Lager", ItemDescription: "Pilsner", Price: 9.0, Elasticity: -0.8, NetUnits: 300, NetSales: 2700},
		{ID: 3, Store: "Downtown", Category: "Spirits", SubCategory: "Whiskey", ItemDescription: "Bourbon", Price: 32.0, Elasticity: -1.5, NetUnits: 80, NetSales: 2560},
	}
}

func writeParquetFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales_data.parquet")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	writer := parquet.NewGenericWriter[salesRow](file)
	if _, err := writer.Write(sampleRows()); err != nil {
		t.Fatalf("write fixture rows: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close fixture writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close fixture file: %v", err)
	}
	return path
}

func writeCSVFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	contents := "id,Store,Category,SubCategory,ItemDescription,Price,Elasticity,NetUnits,NetSales\n" +
		"1,Downtown,Wine,Red,Pinot Noir,18.5,-1.2,120,2220\n" +
		"2,Uptown,Beer,Lager,Pilsner,9.0,-0.8,300,2700\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write csv fixture: %v", err)
	}
	return path
}

func TestQueryOverParquetFixture(t *testing.T) {
	factory, err := NewFactory(Config{Path: writeParquetFixture(t)})
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}

	store, err := factory.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	result, err := store.Query(context.Background(), "SELECT Store, SUM(NetSales) AS total FROM sales_data GROUP BY Store ORDER BY total DESC LIMIT 1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d", len(result.Rows))
	}
	if result.Rows[0][0] != "Downtown" {
		t.Fatalf("top store = %#v", result.Rows[0][0])
	}
	if !reflect.DeepEqual(result.Columns, []string{"Store", "total"}) {
		t.Fatalf("columns = %v", result.Columns)
	}
}

func TestQueryOverCSVFixture(t *testing.T) {
	factory, err := NewFactory(Config{Path: writeCSVFixture(t)})
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}

	store, err := factory.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	result, err := store.Query(context.Background(), "SELECT COUNT(*) AS c FROM sales_data")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0][0] != int64(2) {
		t.Fatalf("count rows = %#v", result.Rows)
	}
}

func TestQuerySupportsTrailingSemicolon(t *testing.T) {
	factory, err := NewFactory(Config{Path: writeCSVFixture(t)})
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	store, err := factory.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	result, err := store.Query(context.Background(), "SELECT COUNT(*) AS c FROM sales_data;")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Rows[0][0] != int64(2) {
		t.Fatalf("count = %#v", result.Rows[0][0])
	}
}

func TestRepeatedQueriesAreIdentical(t *testing.T) {
	factory, err := NewFactory(Config{Path: writeParquetFixture(t)})
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}

	const query = "SELECT Store, NetSales FROM sales_data ORDER BY id"
	first := runQuery(t, factory, query)
	second := runQuery(t, factory, query)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across identical runs:\n%v\n%v", first, second)
	}
}

func TestQueryErrorIncludesBackendMessage(t *testing.T) {
	factory, err := NewFactory(Config{Path: writeCSVFixture(t)})
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	store, err := factory.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.Query(context.Background(), "SELECT missing_column FROM sales_data"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestNewFactoryRejectsUnknownExtension(t *testing.T) {
	if _, err := NewFactory(Config{Path: "sales_data.xlsx"}); err == nil {
		t.Fatal("expected error for unknown dataset format")
	}
}

func TestNewFactoryRequiresPath(t *testing.T) {
	if _, err := NewFactory(Config{}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func runQuery(t *testing.T, factory *Factory, query string) [][]any {
	t.Helper()
	store, err := factory.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	result, err := store.Query(context.Background(), query)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	return result.Rows
}

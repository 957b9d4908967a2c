package s3

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/salespilot/salespilot/internal/storage"
)

type fakeClient struct {
	lastGetBucket string
	lastGetKey    string
	getErr        error
}

func (f *fakeClient) Get(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	f.lastGetBucket = bucket
	f.lastGetKey = key
	if f.getErr != nil {
		return nil, f.getErr
	}
	return io.NopCloser(strings.NewReader(key)), nil
}

func (f *fakeClient) Stat(_ context.Context, _, key string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{Key: key, Size: 10, LastModified: time.Now().UTC()}, nil
}

func TestGetUsesPrefixAndNormalizedKey(t *testing.T) {
	fake := &fakeClient{}
	store, err := NewWithClient("bucket-a", "salespilot/prod", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}

	reader, err := store.Get(context.Background(), "/datasets/sales_data.csv")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = reader.Close()

	if fake.lastGetBucket != "bucket-a" {
		t.Fatalf("bucket = %q", fake.lastGetBucket)
	}
	if fake.lastGetKey != "salespilot/prod/datasets/sales_data.csv" {
		t.Fatalf("key = %q", fake.lastGetKey)
	}
}

func TestGetRejectsPathTraversal(t *testing.T) {
	store, err := NewWithClient("bucket-a", "", &fakeClient{})
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "../secrets.txt"); err == nil {
		t.Fatal("expected path traversal validation error")
	}
}

func TestGetMapsMissingObject(t *testing.T) {
	fake := &fakeClient{getErr: storage.ErrObjectNotFound}
	store, err := NewWithClient("bucket-a", "", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "missing/file.csv"); err != storage.ErrObjectNotFound {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	endpoint, secure, err := parseEndpoint("https://minio.example.com", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if endpoint != "minio.example.com" || !secure {
		t.Fatalf("endpoint/secure = %q/%v", endpoint, secure)
	}

	endpoint, secure, err = parseEndpoint("localhost:9000", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if endpoint != "localhost:9000" || secure {
		t.Fatalf("endpoint/secure = %q/%v", endpoint, secure)
	}
}

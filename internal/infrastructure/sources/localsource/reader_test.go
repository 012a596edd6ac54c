package localsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReader_ReadsRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/f1.json", `[{"event_type":"click","user_id":7},{}]`)

	recs, err := NewReader(root).Read(context.Background(), "b", "f1.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].EventType == nil || *recs[0].EventType != "click" {
		t.Fatalf("unexpected first record %+v", recs[0])
	}
	if recs[1].EventType != nil || recs[1].UserID != nil {
		t.Fatalf("expected empty second record, got %+v", recs[1])
	}
}

func TestReader_NestedKey(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/2024/01/f.json", `[]`)

	recs, err := NewReader(root).Read(context.Background(), "b", "2024/01/f.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestReader_MissingFileIsFetchError(t *testing.T) {
	root := t.TempDir()

	_, err := NewReader(root).Read(context.Background(), "b", "missing.json")
	var fe *sources.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
	var de *sources.DecodeError
	if errors.As(err, &de) {
		t.Fatalf("missing file must not be a DecodeError")
	}
}

func TestReader_InvalidPayloadIsDecodeError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/bad.json", `{"event_type":"click"}`)
	writeFile(t, root, "b/garbage.json", `not json`)
	writeFile(t, root, "b/wrongtype.json", `[{"user_id":"seven"}]`)

	for _, key := range []string{"bad.json", "garbage.json", "wrongtype.json"} {
		_, err := NewReader(root).Read(context.Background(), "b", key)
		var de *sources.DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected DecodeError, got %T: %v", key, err, err)
		}
		if de.Key != key || de.Bucket != "b" {
			t.Fatalf("%s: unexpected error location %s/%s", key, de.Bucket, de.Key)
		}
	}
}

func TestReader_EscapingPathIsFetchError(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	writeFile(t, parent, "secret.json", `[]`)
	writeFile(t, root, "b/ok.json", `[]`)

	r := NewReader(root)
	for _, tc := range []struct{ bucket, key string }{
		{"b", "../../secret.json"},
		{"..", "secret.json"},
	} {
		_, err := r.Read(context.Background(), tc.bucket, tc.key)
		var fe *sources.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("%s/%s: expected FetchError, got %v", tc.bucket, tc.key, err)
		}
	}
}

func TestFactory_DefaultsRoot(t *testing.T) {
	reg := sources.NewRegistry()
	reg.Register(&Factory{})

	r, err := reg.Create(context.Background(), Name, sources.Config{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := r.(*Reader).root; got != "." {
		t.Fatalf("expected root %q, got %q", ".", got)
	}
}

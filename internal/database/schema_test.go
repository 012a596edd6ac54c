package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type recordingExecutor struct {
	mu     sync.Mutex
	stmts  []string
	failAt int // 1-based; 0 never fails
}

func (e *recordingExecutor) Exec(_ context.Context, stmt string, _ ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stmts = append(e.stmts, stmt)
	if e.failAt == len(e.stmts) {
		return errors.New("syntax error")
	}
	return nil
}

func TestSplitStatements(t *testing.T) {
	def := "\n  CREATE KEYSPACE k WITH replication = {'class': 'SimpleStrategy'};\n\n;CREATE TABLE k.t (id text PRIMARY KEY)  ;  \n"
	want := []string{
		"CREATE KEYSPACE k WITH replication = {'class': 'SimpleStrategy'}",
		"CREATE TABLE k.t (id text PRIMARY KEY)",
	}
	if got := SplitStatements(def); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := SplitStatements(" ; \n ;"); len(got) != 0 {
		t.Fatalf("expected no statements, got %q", got)
	}
}

func TestBootstrapSchema_RunsStatementsInOrder(t *testing.T) {
	exec := &recordingExecutor{}
	def := "CREATE TABLE t (id text PRIMARY KEY);CREATE INDEX i ON t (id);"

	if err := BootstrapSchema(context.Background(), exec, def, zerolog.Nop()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	want := []string{"CREATE TABLE t (id text PRIMARY KEY)", "CREATE INDEX i ON t (id)"}
	if !reflect.DeepEqual(exec.stmts, want) {
		t.Fatalf("expected %q, got %q", want, exec.stmts)
	}
}

func TestBootstrapSchema_StopsAtFirstFailure(t *testing.T) {
	exec := &recordingExecutor{failAt: 1}
	def := "CREATE TABLE t (id text PRIMARY KEY);CREATE INDEX i ON t (id);"

	err := BootstrapSchema(context.Background(), exec, def, zerolog.Nop())
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Index != 0 || se.Statement != "CREATE TABLE t (id text PRIMARY KEY)" {
		t.Fatalf("unexpected error location %+v", se)
	}
	if len(exec.stmts) != 1 {
		t.Fatalf("second statement must not run, executed %q", exec.stmts)
	}
}

func TestBootstrapSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.cql")
	if err := os.WriteFile(path, []byte("CREATE TABLE a (x int PRIMARY KEY);\nCREATE TABLE b (y int PRIMARY KEY);\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	exec := &recordingExecutor{failAt: 2}
	err := BootstrapSchemaFile(context.Background(), exec, path, zerolog.Nop())
	var se *SchemaError
	if !errors.As(err, &se) || se.Path != path || se.Index != 1 {
		t.Fatalf("expected SchemaError on statement 2 of %s, got %v", path, err)
	}

	err = BootstrapSchemaFile(context.Background(), &recordingExecutor{}, filepath.Join(t.TempDir(), "nope.cql"), zerolog.Nop())
	if !errors.As(err, &se) || se.Index != -1 || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected unreadable-file SchemaError, got %v", err)
	}
}

func TestShippedSchemaParses(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "schema.cql"))
	if err != nil {
		t.Fatalf("read schema.cql: %v", err)
	}
	if got := len(SplitStatements(string(data))); got != 2 {
		t.Fatalf("expected 2 statements in schema.cql, got %d", got)
	}
}

package database

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// SplitStatements splits a schema definition on ';' and drops empty fragments.
func SplitStatements(definition string) []string {
	var stmts []string
	for _, part := range strings.Split(definition, ";") {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// BootstrapSchema executes each statement of definition in order and stops
// at the first failure. It must complete before the server accepts traffic.
func BootstrapSchema(ctx context.Context, exec Executor, definition string, logger zerolog.Logger) error {
	stmts := SplitStatements(definition)
	for i, stmt := range stmts {
		logger.Info().Int("statement", i+1).Int("of", len(stmts)).Str("query", stmt).Msg("running schema statement")
		if err := exec.Exec(ctx, stmt); err != nil {
			return &SchemaError{Index: i, Statement: stmt, Err: err}
		}
	}
	logger.Info().Int("statements", len(stmts)).Msg("schema ready")
	return nil
}

// BootstrapSchemaFile reads the definition at path and runs BootstrapSchema.
func BootstrapSchemaFile(ctx context.Context, exec Executor, path string, logger zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &SchemaError{Path: path, Index: -1, Err: err}
	}
	if err := BootstrapSchema(ctx, exec, string(data), logger.With().Str("schema_file", path).Logger()); err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
		}
		return err
	}
	return nil
}
